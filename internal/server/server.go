// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"reviewhub/internal/access"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/mailer"
	"reviewhub/internal/middleware"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	authService    *service.AuthService
	userService    *service.UserService
	catalogService *service.CatalogService
	reviewService  *service.ReviewService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var sender mailer.Sender = mailer.LogSender{}
	if redisClient != nil {
		sender = mailer.NewRedisOutbox(redisClient, cfg.MailChannel)
	}

	return NewServerWithDeps(cfg, db, redisClient, sender)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, sender mailer.Sender) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	prom := middleware.InitMetrics("reviewhub-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
	}
	server.authService = service.NewAuthService(userRepo, sender, cfg.JWTSecret, cfg.MailFrom)
	server.userService = service.NewUserService(userRepo, sender, cfg.MailFrom)
	server.catalogService = service.NewCatalogService(categoryRepo, genreRepo, titleRepo, ratingRepo)
	server.reviewService = service.NewReviewService(reviewRepo, titleRepo)
	server.commentService = service.NewCommentService(commentRepo, reviewRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Request tracing (after requestid so spans carry the request ID)
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ReviewHub Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/token", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "token"), s.Token)

	// Public catalog browsing
	api.Get("/categories", s.GetCategories)
	api.Get("/genres", s.GetGenres)
	api.Get("/titles", s.GetTitles)
	api.Get("/titles/:titleId", s.GetTitle)

	// Public feedback browsing
	api.Get("/titles/:titleId/reviews", s.GetReviews)
	api.Get("/titles/:titleId/reviews/:reviewId", s.GetReview)
	api.Get("/titles/:titleId/reviews/:reviewId/comments", s.GetComments)
	api.Get("/titles/:titleId/reviews/:reviewId/comments/:commentId", s.GetComment)

	protected := api.Group("", s.AuthRequired())

	// Profile routes
	protected.Get("/users/me", s.GetMyProfile)
	protected.Patch("/users/me", s.UpdateMyProfile)

	// Admin account management; specific /me routes are registered above so
	// they never fall through to the :username matcher.
	users := protected.Group("/users", s.RequireCollectionAccess(access.ResourceUsers))
	users.Get("/", s.GetUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:username", s.GetUser)
	users.Patch("/:username", s.UpdateUser)
	users.Delete("/:username", s.DeleteUser)

	// Catalog management (admin only). Guards are attached per route: a
	// prefix-level guard on /titles would also capture the nested review and
	// comment writes below.
	categoryAdmin := s.RequireCollectionAccess(access.ResourceCategories)
	protected.Post("/categories", categoryAdmin, s.CreateCategory)
	protected.Delete("/categories/:slug", categoryAdmin, s.DeleteCategory)
	genreAdmin := s.RequireCollectionAccess(access.ResourceGenres)
	protected.Post("/genres", genreAdmin, s.CreateGenre)
	protected.Delete("/genres/:slug", genreAdmin, s.DeleteGenre)
	titleAdmin := s.RequireCollectionAccess(access.ResourceTitles)
	protected.Post("/titles", titleAdmin, s.CreateTitle)
	protected.Patch("/titles/:titleId", titleAdmin, s.UpdateTitle)
	protected.Delete("/titles/:titleId", titleAdmin, s.DeleteTitle)

	// Feedback routes (any authenticated user; object-level rules are
	// enforced in the services)
	protected.Post("/titles/:titleId/reviews", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_review"), s.CreateReview)
	protected.Patch("/titles/:titleId/reviews/:reviewId", s.UpdateReview)
	protected.Delete("/titles/:titleId/reviews/:reviewId", s.DeleteReview)
	protected.Post("/titles/:titleId/reviews/:reviewId/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	protected.Patch("/titles/:titleId/reviews/:reviewId/comments/:commentId", s.UpdateComment)
	protected.Delete("/titles/:titleId/reviews/:reviewId/comments/:commentId", s.DeleteComment)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades gracefully without Redis: no rate limits, no
		// cache, mail falls back to logging. Report it but stay ready.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "reviewhub-api" {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "reviewhub-client" {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Invalid user ID in token"))
		}

		// The account may have been deleted since the token was minted.
		user, err := s.userRepo.GetByID(c.Context(), uint(userID))
		if err != nil {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Account no longer exists"))
		}

		c.Locals("userID", uint(userID))
		c.Locals("user", user)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireCollectionAccess returns middleware enforcing the collection-level
// rule for a resource kind: unsafe methods on catalog and user administration
// resources are admin-only.
// Must be placed after AuthRequired so that the user is available in locals.
func (s *Server) RequireCollectionAccess(resource access.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil {
			return models.RespondWithError(c,
				models.NewAuthRequiredError("Authorization required"))
		}
		if !access.CanPerform(user.Role, true, c.Method(), resource) {
			return models.RespondWithError(c,
				models.NewPermissionDeniedError("Admin access required"))
		}
		return c.Next()
	}
}

// currentUser returns the authenticated user stored by AuthRequired, or nil.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "ReviewHub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithTimeout(10 * time.Second)
}
