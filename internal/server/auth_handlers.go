package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/v1/auth/signup. It registers an account (or
// refreshes an existing one's confirmation code) and mails the code; no
// credentials are returned.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Email == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Username and email are required"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Token handles POST /api/v1/auth/token, exchanging a confirmation code for
// a bearer token.
func (s *Server) Token(c *fiber.Ctx) error {
	var req struct {
		Username         string `json:"username"`
		ConfirmationCode string `json:"confirmation_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Username is required"))
	}

	token, err := s.authService.IssueToken(c.Context(), service.TokenInput{
		Username:         req.Username,
		ConfirmationCode: req.ConfirmationCode,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}
