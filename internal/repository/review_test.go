package repository

import (
	"context"
	"testing"
	"time"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_Create_DuplicateAuthorTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "reviewer")
	title := createTestTitle(t, db, "Pulp Fiction")

	first := &models.Review{
		Authored: models.Authored{Text: "masterpiece", AuthorID: author.ID},
		Score:    10,
		TitleID:  title.ID,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Review{
		Authored: models.Authored{Text: "changed my mind", AuthorID: author.ID},
		Score:    3,
		TitleID:  title.ID,
	}
	err := repo.Create(ctx, second)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	// Same author reviewing a different title is fine.
	other := createTestTitle(t, db, "Reservoir Dogs")
	third := &models.Review{
		Authored: models.Authored{Text: "also great", AuthorID: author.ID},
		Score:    9,
		TitleID:  other.ID,
	}
	assert.NoError(t, repo.Create(ctx, third))
}

func TestReviewRepository_ListByTitle_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	title := createTestTitle(t, db, "Alien")
	for i, username := range []string{"first", "second", "third"} {
		author := createTestUser(t, db, username)
		review := &models.Review{
			Authored: models.Authored{Text: username + " take", AuthorID: author.ID},
			Score:    5,
			TitleID:  title.ID,
		}
		require.NoError(t, repo.Create(ctx, review))
		// Force distinct publication instants so ordering is deterministic.
		backdated := review.PubDate.Add(-time.Duration(i) * time.Minute)
		require.NoError(t, db.Model(review).Update("pub_date", backdated).Error)
	}

	reviews, err := repo.ListByTitle(ctx, title.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "first take", reviews[0].Text)
	assert.Equal(t, "third take", reviews[2].Text)
	assert.NotNil(t, reviews[0].Author)
	assert.Equal(t, "first", reviews[0].Author.Username)
}

func TestReviewRepository_GetForTitle_ScopedToTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "scoped")
	titleA := createTestTitle(t, db, "Title A")
	titleB := createTestTitle(t, db, "Title B")
	review := createTestReview(t, db, author, titleA, 7)

	found, err := repo.GetForTitle(ctx, titleA.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, found.ID)

	// The same review ID under another title must not resolve.
	_, err = repo.GetForTitle(ctx, titleB.ID, review.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestReviewRepository_Update_OnlyTextAndScore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "editor")
	title := createTestTitle(t, db, "Heat")
	review := createTestReview(t, db, author, title, 6)

	review.Text = "revised opinion"
	review.Score = 9
	require.NoError(t, repo.Update(ctx, review))

	reloaded, err := repo.GetForTitle(ctx, title.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised opinion", reloaded.Text)
	assert.Equal(t, 9, reloaded.Score)
	assert.Equal(t, author.ID, reloaded.AuthorID)
}

func TestCascade_DeletingTitleRemovesReviewsAndComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "cascade")
	title := createTestTitle(t, db, "Doomed")
	review := createTestReview(t, db, author, title, 8)

	comment := &models.Comment{
		Authored: models.Authored{Text: "agreed", AuthorID: author.ID},
		ReviewID: review.ID,
	}
	require.NoError(t, NewCommentRepository(db).Create(ctx, comment))

	require.NoError(t, NewTitleRepository(db).Delete(ctx, title.ID))

	var reviewCount, commentCount int64
	require.NoError(t, db.Model(&models.Review{}).Count(&reviewCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, reviewCount)
	assert.Zero(t, commentCount)
}

func TestCascade_DeletingUserRemovesTheirFeedback(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "leaving")
	bystander := createTestUser(t, db, "staying")
	title := createTestTitle(t, db, "Surviving Title")
	doomed := createTestReview(t, db, author, title, 4)
	kept := createTestReview(t, db, bystander, title, 8)

	comment := &models.Comment{
		Authored: models.Authored{Text: "on the kept review", AuthorID: author.ID},
		ReviewID: kept.ID,
	}
	require.NoError(t, NewCommentRepository(db).Create(ctx, comment))

	require.NoError(t, NewUserRepository(db).Delete(ctx, author.ID))

	var reviews []models.Review
	require.NoError(t, db.Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, kept.ID, reviews[0].ID)
	assert.NotEqual(t, doomed.ID, reviews[0].ID)

	var commentCount int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, commentCount)

	// The title itself is untouched.
	_, err := NewTitleRepository(db).GetByID(ctx, title.ID)
	assert.NoError(t, err)
}
