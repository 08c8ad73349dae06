package repository

import (
	"context"
	"errors"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

// TitleFilter narrows a title listing. Name, Category, and Genre are
// substring matches on the name / slug; Year is an exact match.
type TitleFilter struct {
	Name     string
	Category string
	Genre    string
	Year     *int
	Limit    int
	Offset   int
}

// TitleRepository defines persistence operations for titles.
type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	GetByID(ctx context.Context, id uint) (*models.Title, error)
	List(ctx context.Context, filter TitleFilter) ([]models.Title, error)
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id uint) error
}

type titleRepository struct {
	db *gorm.DB
}

// NewTitleRepository returns a new TitleRepository implementation.
func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *titleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Title", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &title, nil
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter) ([]models.Title, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Title{}).
		Preload("Category").
		Preload("Genres").
		Order("titles.name asc").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if filter.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}
	if filter.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug LIKE ?", "%"+filter.Category+"%")
	}
	if filter.Genre != "" {
		// The genre join can multiply rows for titles with several
		// matching genres; Distinct keeps the listing one row per title.
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug LIKE ?", "%"+filter.Genre+"%").
			Distinct("titles.*")
	}

	var titles []models.Title
	if err := q.Find(&titles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	// Save alone would upsert associations; genre membership changes go
	// through ReplaceGenres instead.
	err := r.db.WithContext(ctx).
		Omit("Genres", "Category").
		Save(title).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	if err := r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres); err != nil {
		return models.NewInternalError(err)
	}
	title.Genres = genres
	return nil
}

// Delete removes a title; its reviews, and their comments, go with it
// through FK cascades in the same statement's transaction.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Title", id)
	}
	return nil
}
