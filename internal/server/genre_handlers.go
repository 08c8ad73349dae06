package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGenres handles GET /api/v1/genres
func (s *Server) GetGenres(c *fiber.Ctx) error {
	p := parsePagination(c)
	genres, err := s.catalogService.ListGenres(c.Context(), c.Query("search"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"genres": genres,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// CreateGenre handles POST /api/v1/genres (admin only)
func (s *Server) CreateGenre(c *fiber.Ctx) error {
	var req classifierPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	genre, err := s.catalogService.CreateGenre(c.Context(), service.ClassifierInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// DeleteGenre handles DELETE /api/v1/genres/:slug (admin only)
func (s *Server) DeleteGenre(c *fiber.Ctx) error {
	if err := s.catalogService.DeleteGenre(c.Context(), c.Params("slug")); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
