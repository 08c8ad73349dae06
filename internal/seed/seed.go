// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"reviewhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumTitles  int
	NumReviews int
	Clean      bool
}

var categories = []models.Category{
	{Name: "Movies", Slug: "movies"},
	{Name: "Books", Slug: "books"},
	{Name: "Music", Slug: "music"},
	{Name: "Games", Slug: "games"},
}

var genres = []models.Genre{
	{Name: "Drama", Slug: "drama"},
	{Name: "Comedy", Slug: "comedy"},
	{Name: "Thriller", Slug: "thriller"},
	{Name: "Sci-Fi", Slug: "sci-fi"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Documentary", Slug: "documentary"},
	{Name: "Horror", Slug: "horror"},
	{Name: "Romance", Slug: "romance"},
}

// Seed populates the database with demo users, a catalog, and feedback.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d titles, %d reviews...", opts.NumUsers, opts.NumTitles, opts.NumReviews)

	if opts.Clean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	if err := f.EnsureCatalogClassifiers(); err != nil {
		return fmt.Errorf("failed to create categories and genres: %w", err)
	}

	titles, err := f.CreateTitles(opts.NumTitles)
	if err != nil {
		return fmt.Errorf("failed to create titles: %w", err)
	}
	log.Printf("%d titles created", len(titles))

	reviews, err := f.CreateReviews(users, titles, opts.NumReviews)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("%d reviews created (with comments)", len(reviews))

	log.Println("Seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, reviews, title_genres, titles, genres, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	code := gofakeit.UUID()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:            gofakeit.Email(),
		FirstName:        gofakeit.FirstName(),
		LastName:         gofakeit.LastName(),
		Bio:              gofakeit.Sentence(10),
		Role:             models.RoleUser,
		ConfirmationHash: string(hash),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUsers persists n demo users plus one admin and one moderator.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+2)

	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@reviewhub.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, err
	}
	moderator, err := f.CreateUser(func(u *models.User) {
		u.Username = "moderator"
		u.Email = "moderator@reviewhub.local"
		u.Role = models.RoleModerator
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin, moderator)

	for i := 0; i < n; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// EnsureCatalogClassifiers creates the fixed category and genre sets,
// skipping any that already exist.
func (f *Factory) EnsureCatalogClassifiers() error {
	for i := range categories {
		c := categories[i]
		if err := f.db.Where(models.Category{Slug: c.Slug}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	for i := range genres {
		g := genres[i]
		if err := f.db.Where(models.Genre{Slug: g.Slug}).FirstOrCreate(&g).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateTitle constructs and persists a sample title with a random category
// and one to three genres.
func (f *Factory) CreateTitle(overrides ...func(*models.Title)) (*models.Title, error) {
	var allCategories []models.Category
	if err := f.db.Find(&allCategories).Error; err != nil {
		return nil, err
	}
	var allGenres []models.Genre
	if err := f.db.Find(&allGenres).Error; err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        gofakeit.MovieName(),
		Year:        gofakeit.Number(1930, time.Now().Year()),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
	}
	if len(allCategories) > 0 {
		category := allCategories[f.r.Intn(len(allCategories))]
		title.CategoryID = &category.ID
	}
	if len(allGenres) > 0 {
		count := 1 + f.r.Intn(3)
		picked := f.r.Perm(len(allGenres))
		for i := 0; i < count && i < len(picked); i++ {
			title.Genres = append(title.Genres, allGenres[picked[i]])
		}
	}

	for _, override := range overrides {
		override(title)
	}

	if err := f.db.Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

// CreateTitles persists n demo titles.
func (f *Factory) CreateTitles(n int) ([]*models.Title, error) {
	titles := make([]*models.Title, 0, n)
	for i := 0; i < n; i++ {
		title, err := f.CreateTitle()
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, nil
}

// CreateReviews spreads n reviews over random (author, title) pairs without
// ever pairing the same author and title twice, and hangs zero to three
// comments off each review.
func (f *Factory) CreateReviews(users []*models.User, titles []*models.Title, n int) ([]*models.Review, error) {
	if len(users) == 0 || len(titles) == 0 {
		return nil, nil
	}

	taken := make(map[[2]uint]bool, n)
	reviews := make([]*models.Review, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.r.Intn(len(users))]
		title := titles[f.r.Intn(len(titles))]
		pair := [2]uint{author.ID, title.ID}
		if taken[pair] {
			continue
		}
		taken[pair] = true

		review := &models.Review{
			Authored: models.Authored{
				Text:     gofakeit.Paragraph(1, 2, 10, " "),
				AuthorID: author.ID,
			},
			Score:   gofakeit.Number(models.MinScore, models.MaxScore),
			TitleID: title.ID,
		}
		if err := f.db.Create(review).Error; err != nil {
			return nil, err
		}
		reviews = append(reviews, review)

		for j := f.r.Intn(4); j > 0; j-- {
			commenter := users[f.r.Intn(len(users))]
			comment := &models.Comment{
				Authored: models.Authored{
					Text:     gofakeit.Sentence(12),
					AuthorID: commenter.ID,
				},
				ReviewID: review.ID,
			}
			if err := f.db.Create(comment).Error; err != nil {
				return nil, err
			}
		}
	}
	return reviews, nil
}
