package service

import (
	"context"
	"errors"
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, search, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeValidation)
}

func TestUserService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults to user role", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			created = u
			return nil
		}
		sender := &senderStub{}
		svc := NewUserService(repo, sender, "noreply@reviewhub.local")

		user, err := svc.Create(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		require.NotNil(t, created)
		assert.Equal(t, "alice", created.Username)
		assert.NotEmpty(t, created.ConfirmationHash)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "alice@example.com", sender.sent[0].To)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
		_, err := svc.Create(ctx, CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Role:     models.Role("superuser"),
		})
		assertValidationError(t, err)
	})

	t.Run("rejects reserved username", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
		_, err := svc.Create(ctx, CreateUserInput{Username: "me", Email: "me@example.com"})
		assertValidationError(t, err)
	})
}

func TestUserService_GetByUsername_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
	_, err := svc.GetByUsername(context.Background(), "ghost")
	assertErrorCode(t, err, models.CodeNotFound)
}

func TestUserService_UpdateByUsername_PartialUpdate(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 7, Username: "alice", Email: "old@example.com", Bio: "old bio", Role: models.RoleUser}, nil
	}
	svc := NewUserService(repo, &senderStub{}, "noreply@reviewhub.local")

	bio := "new bio"
	role := models.RoleModerator
	user, err := svc.UpdateByUsername(context.Background(), "alice", UpdateUserInput{Bio: &bio, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, "old@example.com", user.Email)
}

func TestUserService_UpdateProfile_RoleChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ignored for ordinary users", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
		requester := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}

		role := models.RoleAdmin
		bio := "still applied"
		updated, err := svc.UpdateProfile(ctx, requester, UpdateUserInput{Role: &role, Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, updated.Role)
		assert.Equal(t, "still applied", updated.Bio)
	})

	t.Run("ignored for moderators", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
		requester := &models.User{ID: 2, Username: "mod", Role: models.RoleModerator}

		role := models.RoleAdmin
		updated, err := svc.UpdateProfile(ctx, requester, UpdateUserInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, updated.Role)
	})

	t.Run("applied for admins", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), &senderStub{}, "noreply@reviewhub.local")
		requester := &models.User{ID: 3, Username: "root", Role: models.RoleAdmin}

		role := models.RoleModerator
		updated, err := svc.UpdateProfile(ctx, requester, UpdateUserInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, updated.Role)
	})
}

func TestUserService_DeleteByUsername(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 9, Username: "doomed"}, nil
	}
	var deletedID uint
	repo.deleteFn = func(_ context.Context, id uint) error {
		deletedID = id
		return nil
	}
	svc := NewUserService(repo, &senderStub{}, "noreply@reviewhub.local")

	require.NoError(t, svc.DeleteByUsername(context.Background(), "doomed"))
	assert.Equal(t, uint(9), deletedID)

	repoErr := errors.New("db down")
	repo.deleteFn = func(_ context.Context, _ uint) error { return repoErr }
	assert.ErrorIs(t, svc.DeleteByUsername(context.Background(), "doomed"), repoErr)
}
