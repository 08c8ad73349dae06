package repository

import (
	"context"

	"reviewhub/internal/models"
	"reviewhub/internal/observability"

	"gorm.io/gorm"
)

// RatingRepository computes title ratings from review scores at read time.
// Ratings are never persisted or cached: the mean always reflects the
// reviews visible in the store at the moment of the query.
type RatingRepository interface {
	ForTitle(ctx context.Context, titleID uint) (*float64, error)
	ForTitles(ctx context.Context, titleIDs []uint) (map[uint]float64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// ForTitle returns the mean score for the title, or nil when the title has
// no reviews (AVG over the empty set is SQL NULL, which must not collapse
// to a rating of 0).
func (r *ratingRepository) ForTitle(ctx context.Context, titleID uint) (*float64, error) {
	defer observability.TrackQuery("avg", "reviews")()

	var rating *float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&rating).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rating, nil
}

// ForTitles batches the mean computation for a page of titles. Titles with
// no reviews are simply absent from the result map.
func (r *ratingRepository) ForTitles(ctx context.Context, titleIDs []uint) (map[uint]float64, error) {
	ratings := make(map[uint]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return ratings, nil
	}

	defer observability.TrackQuery("avg_batch", "reviews")()

	var rows []struct {
		TitleID uint
		Rating  float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, row := range rows {
		ratings[row.TitleID] = row.Rating
	}
	return ratings, nil
}
