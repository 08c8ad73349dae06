package service

import (
	"context"
	"fmt"

	"reviewhub/internal/access"
	"reviewhub/internal/models"
	"reviewhub/internal/observability"
	"reviewhub/internal/repository"
)

const maxFeedbackLen = 10000

// ReviewService handles per-title reviews. The one-review-per-author rule is
// enforced by the database, not here, so concurrent submissions cannot race
// past a check.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

type CreateReviewInput struct {
	TitleID uint
	Text    string
	Score   int
}

type UpdateReviewInput struct {
	TitleID  uint
	ReviewID uint
	Text     *string
	Score    *int
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func validateScore(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return models.NewValidationError(fmt.Sprintf("Score must be between %d and %d", models.MinScore, models.MaxScore))
	}
	return nil
}

func validateFeedbackText(text string) error {
	if text == "" {
		return models.NewValidationError("Text is required")
	}
	if len(text) > maxFeedbackLen {
		return models.NewValidationError(fmt.Sprintf("Text too long (max %d characters)", maxFeedbackLen))
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, requester *models.User, in CreateReviewInput) (*models.Review, error) {
	if err := validateFeedbackText(in.Text); err != nil {
		return nil, err
	}
	if err := validateScore(in.Score); err != nil {
		return nil, err
	}
	if _, err := s.titleRepo.GetByID(ctx, in.TitleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		Authored: models.Authored{Text: in.Text, AuthorID: requester.ID},
		Score:    in.Score,
		TitleID:  in.TitleID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	observability.ReviewsCreatedTotal.Inc()

	return s.reviewRepo.GetForTitle(ctx, in.TitleID, review.ID)
}

func (s *ReviewService) List(ctx context.Context, titleID uint, limit, offset int) ([]*models.Review, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, limit, offset)
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	return s.reviewRepo.GetForTitle(ctx, titleID, reviewID)
}

func (s *ReviewService) Update(ctx context.Context, requester *models.User, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetForTitle(ctx, in.TitleID, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if !access.CanActOnObject(requester, "PATCH", review.AuthorID) {
		return nil, models.NewPermissionDeniedError("You can only edit your own reviews")
	}

	if in.Text != nil {
		if err := validateFeedbackText(*in.Text); err != nil {
			return nil, err
		}
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := validateScore(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetForTitle(ctx, in.TitleID, review.ID)
}

func (s *ReviewService) Delete(ctx context.Context, requester *models.User, titleID, reviewID uint) error {
	review, err := s.reviewRepo.GetForTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !access.CanActOnObject(requester, "DELETE", review.AuthorID) {
		return models.NewPermissionDeniedError("You can only delete your own reviews")
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
