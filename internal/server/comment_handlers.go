package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// feedbackPath pulls the title/review (and optionally comment) IDs out of
// the route. A zero return with a written response means bail out.
func (s *Server) feedbackPath(c *fiber.Ctx, withComment bool) (titleID, reviewID, commentID uint, err error) {
	if titleID, err = s.parseID(c, "titleId"); err != nil {
		return
	}
	if reviewID, err = s.parseID(c, "reviewId"); err != nil {
		return
	}
	if withComment {
		commentID, err = s.parseID(c, "commentId")
	}
	return
}

// GetComments handles GET /api/v1/titles/:titleId/reviews/:reviewId/comments,
// newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	titleID, reviewID, _, err := s.feedbackPath(c, false)
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	comments, err := s.commentService.List(c.Context(), titleID, reviewID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"comments": comments,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

// GetComment handles GET /api/v1/titles/:titleId/reviews/:reviewId/comments/:commentId
func (s *Server) GetComment(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := s.feedbackPath(c, true)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.Context(), titleID, reviewID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// CreateComment handles POST /api/v1/titles/:titleId/reviews/:reviewId/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	titleID, reviewID, _, err := s.feedbackPath(c, false)
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.Context(), s.currentUser(c), service.CreateCommentInput{
		TitleID:  titleID,
		ReviewID: reviewID,
		Text:     req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PATCH /api/v1/titles/:titleId/reviews/:reviewId/comments/:commentId.
// Allowed for the author, moderators and admins.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := s.feedbackPath(c, true)
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(c.Context(), s.currentUser(c), service.UpdateCommentInput{
		TitleID:   titleID,
		ReviewID:  reviewID,
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/v1/titles/:titleId/reviews/:reviewId/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := s.feedbackPath(c, true)
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.Context(), s.currentUser(c), titleID, reviewID, commentID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
