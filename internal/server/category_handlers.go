package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type classifierPayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GetCategories handles GET /api/v1/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	p := parsePagination(c)
	categories, err := s.catalogService.ListCategories(c.Context(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"categories": categories,
		"limit":      p.Limit,
		"offset":     p.Offset,
	})
}

// CreateCategory handles POST /api/v1/categories (admin only)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req classifierPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.catalogService.CreateCategory(c.Context(), service.ClassifierInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory handles DELETE /api/v1/categories/:slug (admin only).
// Titles in the category survive with their category cleared.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	if err := s.catalogService.DeleteCategory(c.Context(), c.Params("slug")); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
