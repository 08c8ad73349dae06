package repository

import (
	"context"
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	movies := &models.Category{Name: "Movies", Slug: "movies"}
	books := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, movies))
	require.NoError(t, NewCategoryRepository(db).Create(ctx, books))

	drama := &models.Genre{Name: "Drama", Slug: "drama"}
	comedy := &models.Genre{Name: "Comedy", Slug: "comedy"}
	require.NoError(t, NewGenreRepository(db).Create(ctx, drama))
	require.NoError(t, NewGenreRepository(db).Create(ctx, comedy))

	titles := NewTitleRepository(db)
	require.NoError(t, titles.Create(ctx, &models.Title{
		Name: "The Godfather", Year: 1972, CategoryID: &movies.ID,
		Genres: []models.Genre{*drama},
	}))
	require.NoError(t, titles.Create(ctx, &models.Title{
		Name: "Some Like It Hot", Year: 1959, CategoryID: &movies.ID,
		Genres: []models.Genre{*comedy},
	}))
	require.NoError(t, titles.Create(ctx, &models.Title{
		Name: "The Master and Margarita", Year: 1967, CategoryID: &books.ID,
		Genres: []models.Genre{*drama, *comedy},
	}))
}

func TestTitleRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	year := 1972

	tests := []struct {
		name     string
		filter   TitleFilter
		expected []string
	}{
		{
			name:     "no filter returns everything",
			filter:   TitleFilter{Limit: 10},
			expected: []string{"The Godfather", "Some Like It Hot", "The Master and Margarita"},
		},
		{
			name:     "name substring",
			filter:   TitleFilter{Name: "Ma", Limit: 10},
			expected: []string{"The Master and Margarita"},
		},
		{
			name:     "category slug",
			filter:   TitleFilter{Category: "books", Limit: 10},
			expected: []string{"The Master and Margarita"},
		},
		{
			name:     "genre slug",
			filter:   TitleFilter{Genre: "drama", Limit: 10},
			expected: []string{"The Godfather", "The Master and Margarita"},
		},
		{
			name:     "year exact",
			filter:   TitleFilter{Year: &year, Limit: 10},
			expected: []string{"The Godfather"},
		},
		{
			name:     "combined category and genre",
			filter:   TitleFilter{Category: "movies", Genre: "comedy", Limit: 10},
			expected: []string{"Some Like It Hot"},
		},
		{
			name:     "no matches",
			filter:   TitleFilter{Name: "nonexistent", Limit: 10},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			var names []string
			for _, title := range titles {
				names = append(names, title.Name)
			}
			assert.ElementsMatch(t, tt.expected, names)
		})
	}
}

func TestTitleRepository_List_PreloadsRelations(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewTitleRepository(db)

	titles, err := repo.List(context.Background(), TitleFilter{Name: "Margarita", Limit: 10})
	require.NoError(t, err)
	require.Len(t, titles, 1)

	require.NotNil(t, titles[0].Category)
	assert.Equal(t, "books", titles[0].Category.Slug)
	assert.Len(t, titles[0].Genres, 2)
}

func TestTitleRepository_CategoryDeleteSetsNull(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	require.NoError(t, NewCategoryRepository(db).DeleteBySlug(ctx, "books"))

	titles, err := repo.List(ctx, TitleFilter{Name: "Margarita", Limit: 10})
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Nil(t, titles[0].CategoryID)
	assert.Nil(t, titles[0].Category)
}

func TestTitleRepository_ReplaceGenres(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	titles, err := repo.List(ctx, TitleFilter{Name: "Godfather", Limit: 10})
	require.NoError(t, err)
	require.Len(t, titles, 1)
	title := titles[0]

	var comedy models.Genre
	require.NoError(t, db.Where("slug = ?", "comedy").First(&comedy).Error)

	require.NoError(t, repo.ReplaceGenres(ctx, &title, []models.Genre{comedy}))

	reloaded, err := repo.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Genres, 1)
	assert.Equal(t, "comedy", reloaded.Genres[0].Slug)
}
