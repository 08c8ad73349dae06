package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reviewPayload struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// GetReviews handles GET /api/v1/titles/:titleId/reviews, newest first.
func (s *Server) GetReviews(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	reviews, err := s.reviewService.List(c.Context(), titleID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetReview handles GET /api/v1/titles/:titleId/reviews/:reviewId
func (s *Server) GetReview(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	review, err := s.reviewService.Get(c.Context(), titleID, reviewID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(review)
}

// CreateReview handles POST /api/v1/titles/:titleId/reviews. One review per
// author per title; a second submission is a conflict.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}

	var req reviewPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.Text == nil || req.Score == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Text and score are required"))
	}

	review, err := s.reviewService.Create(c.Context(), s.currentUser(c), service.CreateReviewInput{
		TitleID: titleID,
		Text:    *req.Text,
		Score:   *req.Score,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview handles PATCH /api/v1/titles/:titleId/reviews/:reviewId.
// Allowed for the author, moderators and admins.
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	var req reviewPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Update(c.Context(), s.currentUser(c), service.UpdateReviewInput{
		TitleID:  titleID,
		ReviewID: reviewID,
		Text:     req.Text,
		Score:    req.Score,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /api/v1/titles/:titleId/reviews/:reviewId
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	titleID, err := s.parseID(c, "titleId")
	if err != nil {
		return nil
	}
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	if err := s.reviewService.Delete(c.Context(), s.currentUser(c), titleID, reviewID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
