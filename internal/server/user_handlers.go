package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type userPayload struct {
	Username  *string      `json:"username"`
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role"`
}

func (p userPayload) toUpdate() service.UpdateUserInput {
	return service.UpdateUserInput{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		Role:      p.Role,
	}
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

// GetMyProfile handles GET /api/v1/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(s.currentUser(c))
}

// UpdateMyProfile handles PATCH /api/v1/users/me. Non-admins may include a
// role field, but it is ignored rather than rejected.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req userPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), s.currentUser(c), req.toUpdate())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUsers handles GET /api/v1/users (admin only). The search query matches
// usernames.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	users, err := s.userService.List(c.Context(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// CreateUser handles POST /api/v1/users (admin only)
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req userPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == nil || req.Email == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Username and email are required"))
	}

	in := service.CreateUserInput{
		Username:  *req.Username,
		Email:     *req.Email,
		FirstName: derefOr(req.FirstName, ""),
		LastName:  derefOr(req.LastName, ""),
		Bio:       derefOr(req.Bio, ""),
	}
	if req.Role != nil {
		in.Role = *req.Role
	}

	user, err := s.userService.Create(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/v1/users/:username (admin only)
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PATCH /api/v1/users/:username (admin only)
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req userPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateByUsername(c.Context(), c.Params("username"), req.toUpdate())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/v1/users/:username (admin only). The user's
// reviews and comments go with the account.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.userService.DeleteByUsername(c.Context(), c.Params("username")); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
