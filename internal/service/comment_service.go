package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

// CommentService handles comments on reviews. Every operation verifies the
// review actually belongs to the title in the request path before touching
// comments.
type CommentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

type CreateCommentInput struct {
	TitleID  uint
	ReviewID uint
	Text     string
}

type UpdateCommentInput struct {
	TitleID   uint
	ReviewID  uint
	CommentID uint
	Text      string
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *CommentService) Create(ctx context.Context, requester *models.User, in CreateCommentInput) (*models.Comment, error) {
	if err := validateFeedbackText(in.Text); err != nil {
		return nil, err
	}
	if _, err := s.reviewRepo.GetForTitle(ctx, in.TitleID, in.ReviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Authored: models.Authored{Text: in.Text, AuthorID: requester.ID},
		ReviewID: in.ReviewID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetForReview(ctx, in.ReviewID, comment.ID)
}

func (s *CommentService) List(ctx context.Context, titleID, reviewID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.reviewRepo.GetForTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, limit, offset)
}

func (s *CommentService) Get(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.reviewRepo.GetForTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetForReview(ctx, reviewID, commentID)
}

func (s *CommentService) Update(ctx context.Context, requester *models.User, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.Get(ctx, in.TitleID, in.ReviewID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !access.CanActOnObject(requester, "PATCH", comment.AuthorID) {
		return nil, models.NewPermissionDeniedError("You can only edit your own comments")
	}
	if err := validateFeedbackText(in.Text); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetForReview(ctx, in.ReviewID, comment.ID)
}

func (s *CommentService) Delete(ctx context.Context, requester *models.User, titleID, reviewID, commentID uint) error {
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !access.CanActOnObject(requester, "DELETE", comment.AuthorID) {
		return models.NewPermissionDeniedError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
