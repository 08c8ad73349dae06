package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/mailer"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService covers both the admin-facing account management and the
// self-service profile endpoint.
type UserService struct {
	userRepo repository.UserRepository
	sender   mailer.Sender
	mailFrom string
}

type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      models.Role
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

func NewUserService(userRepo repository.UserRepository, sender mailer.Sender, mailFrom string) *UserService {
	return &UserService{userRepo: userRepo, sender: sender, mailFrom: mailFrom}
}

func (s *UserService) List(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, search, limit, offset)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create provisions an account directly. Only admins reach this path; the
// handler enforces that. A confirmation code is issued and mailed the same
// way signup does it, so the new account can obtain a token.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}

	code := newConfirmationCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:         in.Username,
		Email:            in.Email,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Bio:              in.Bio,
		Role:             role,
		ConfirmationHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	dispatchConfirmationCode(ctx, s.sender, s.mailFrom, user, code)
	return user, nil
}

// UpdateByUsername applies an admin-initiated partial update.
func (s *UserService) UpdateByUsername(ctx context.Context, username string, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(user, in, true); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// UpdateProfile applies a self-service update. A role change is applied only
// when the requester may assign roles; otherwise the field is quietly
// dropped rather than rejected, so ordinary clients can echo back the whole
// profile object.
func (s *UserService) UpdateProfile(ctx context.Context, requester *models.User, in UpdateUserInput) (*models.User, error) {
	if err := s.applyUpdate(requester, in, access.CanSetRole(requester)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, requester); err != nil {
		return nil, err
	}
	return requester, nil
}

func (s *UserService) applyUpdate(user *models.User, in UpdateUserInput, allowRole bool) error {
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return err
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRole {
		if !in.Role.Valid() {
			return models.NewValidationError("Invalid role")
		}
		user.Role = *in.Role
	}
	return nil
}
