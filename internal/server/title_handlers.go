package server

import (
	"strconv"

	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type titlePayload struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

// GetTitles handles GET /api/v1/titles. Supported filters: name and category
// and genre slug substrings, exact year.
func (s *Server) GetTitles(c *fiber.Ctx) error {
	p := parsePagination(c)
	filter := repository.TitleFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return models.RespondWithError(c,
				models.NewValidationError("year must be an integer"))
		}
		filter.Year = &year
	}

	titles, err := s.catalogService.ListTitles(c.Context(), filter)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"titles": titles,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetTitle handles GET /api/v1/titles/:titleId
func (s *Server) GetTitle(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}

	title, err := s.catalogService.GetTitle(c.Context(), titleID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(title)
}

// CreateTitle handles POST /api/v1/titles (admin only)
func (s *Server) CreateTitle(c *fiber.Ctx) error {
	var req titlePayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == nil || req.Year == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Name and year are required"))
	}

	in := service.CreateTitleInput{
		Name:         *req.Name,
		Year:         *req.Year,
		Description:  derefOr(req.Description, ""),
		CategorySlug: derefOr(req.Category, ""),
	}
	if req.Genres != nil {
		in.GenreSlugs = *req.Genres
	}

	title, err := s.catalogService.CreateTitle(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(title)
}

// UpdateTitle handles PATCH /api/v1/titles/:titleId (admin only)
func (s *Server) UpdateTitle(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}

	var req titlePayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	title, err := s.catalogService.UpdateTitle(c.Context(), titleID, service.UpdateTitleInput{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genres,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(title)
}

// DeleteTitle handles DELETE /api/v1/titles/:titleId (admin only). Reviews
// and their comments cascade away with the title.
func (s *Server) DeleteTitle(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteTitle(c.Context(), titleID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
