package repository

import (
	"context"
	"testing"

	"reviewhub/internal/database"
	"reviewhub/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the full schema
// applied. Foreign keys are enabled so cascade and SET NULL behavior
// matches production. A single connection keeps the in-memory database
// alive for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.ApplySchema(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTitle(t *testing.T, db *gorm.DB, name string) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: 1994}
	require.NoError(t, db.Create(title).Error)
	return title
}

func createTestReview(t *testing.T, db *gorm.DB, author *models.User, title *models.Title, score int) *models.Review {
	t.Helper()
	review := &models.Review{
		Authored: models.Authored{Text: "review text", AuthorID: author.ID},
		Score:    score,
		TitleID:  title.ID,
	}
	require.NoError(t, NewReviewRepository(db).Create(context.Background(), review))
	return review
}
