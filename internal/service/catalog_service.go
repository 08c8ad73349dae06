package service

import (
	"context"

	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"
)

// CatalogService manages categories, genres and titles. Listings decorate
// titles with their aggregate rating.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	titleRepo    repository.TitleRepository
	ratingRepo   repository.RatingRepository
}

type ClassifierInput struct {
	Name string
	Slug string
}

type CreateTitleInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// UpdateTitleInput carries partial updates; nil fields are left untouched.
type UpdateTitleInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	titleRepo repository.TitleRepository,
	ratingRepo repository.RatingRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleRepo:    titleRepo,
		ratingRepo:   ratingRepo,
	}
}

func validateClassifier(in ClassifierInput) error {
	if err := validation.ValidateName(in.Name); err != nil {
		return err
	}
	return validation.ValidateSlug(in.Slug)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in ClassifierInput) (*models.Category, error) {
	if err := validateClassifier(in); err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, limit, offset int) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, search, limit, offset)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	return s.categoryRepo.DeleteBySlug(ctx, slug)
}

func (s *CatalogService) CreateGenre(ctx context.Context, in ClassifierInput) (*models.Genre, error) {
	if err := validateClassifier(in); err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, limit, offset int) ([]models.Genre, error) {
	return s.genreRepo.List(ctx, search, limit, offset)
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	return s.genreRepo.DeleteBySlug(ctx, slug)
}

func (s *CatalogService) CreateTitle(ctx context.Context, in CreateTitleInput) (*models.Title, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateYear(in.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}
	genres, err := s.genreRepo.GetBySlugs(ctx, in.GenreSlugs)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

// GetTitle loads a title together with its aggregate rating. The rating is
// nil, not zero, when the title has no reviews yet.
func (s *CatalogService) GetTitle(ctx context.Context, id uint) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rating, err := s.ratingRepo.ForTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating
	return title, nil
}

func (s *CatalogService) ListTitles(ctx context.Context, filter repository.TitleFilter) ([]models.Title, error) {
	titles, err := s.titleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return titles, nil
	}

	ids := make([]uint, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	ratings, err := s.ratingRepo.ForTitles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range titles {
		if r, ok := ratings[titles[i].ID]; ok {
			rating := r
			titles[i].Rating = &rating
		}
	}
	return titles, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id uint, in UpdateTitleInput) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, err
		}
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := validation.ValidateYear(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.CategorySlug != nil {
		if *in.CategorySlug == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.categoryRepo.GetBySlug(ctx, *in.CategorySlug)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if in.GenreSlugs != nil {
		genres, err := s.genreRepo.GetBySlugs(ctx, *in.GenreSlugs)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	return s.GetTitle(ctx, title.ID)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id uint) error {
	return s.titleRepo.Delete(ctx, id)
}
