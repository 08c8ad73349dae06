package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"reviewhub/internal/mailer"
	"reviewhub/internal/middleware"
	"reviewhub/internal/models"
	"reviewhub/internal/observability"
	"reviewhub/internal/repository"
	"reviewhub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = time.Hour * 24 * 7

// AuthService implements the signup and token-exchange flow. Accounts carry
// no password; a confirmation code is mailed on signup and exchanged for a
// bearer token.
type AuthService struct {
	userRepo  repository.UserRepository
	sender    mailer.Sender
	jwtSecret string
	mailFrom  string
}

type RegisterInput struct {
	Username string
	Email    string
}

type TokenInput struct {
	Username         string
	ConfirmationCode string
}

func NewAuthService(userRepo repository.UserRepository, sender mailer.Sender, jwtSecret, mailFrom string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		sender:    sender,
		jwtSecret: jwtSecret,
		mailFrom:  mailFrom,
	}
}

// Register creates an account (or refreshes the code of an existing one when
// the same username/email pair signs up again) and mails a fresh
// confirmation code. Repeating the call invalidates previously mailed codes.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	byUsername, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	code := newConfirmationCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var user *models.User
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		// Repeat signup for the same account: reissue the code.
		user = byUsername
		user.ConfirmationHash = string(hash)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	case byUsername != nil:
		return nil, models.NewConflictError("Username already taken")
	case byEmail != nil:
		return nil, models.NewConflictError("Email already registered")
	default:
		user = &models.User{
			Username:         in.Username,
			Email:            in.Email,
			Role:             models.RoleUser,
			ConfirmationHash: string(hash),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	dispatchConfirmationCode(ctx, s.sender, s.mailFrom, user, code)
	return user, nil
}

// IssueToken exchanges a mailed confirmation code for a signed bearer token.
// An unknown username is NotFound, a wrong code InvalidCode; the distinction
// matters to API clients.
func (s *AuthService) IssueToken(ctx context.Context, in TokenInput) (string, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return "", err
	}
	if in.ConfirmationCode == "" {
		return "", models.NewValidationError("Confirmation code is required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewNotFoundError("User", in.Username)
	}

	if user.ConfirmationHash == "" {
		return "", models.NewInvalidCodeError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationHash), []byte(in.ConfirmationCode)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", models.NewInvalidCodeError()
		}
		return "", models.NewInternalError(err)
	}

	return s.generateToken(user)
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	if s.jwtSecret == "" {
		return "", models.NewInternalError(fmt.Errorf("JWT secret not configured"))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "reviewhub-api",
		"aud":      "reviewhub-client",
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// dispatchConfirmationCode mails the plaintext code. Delivery failure does
// not fail the calling operation; the client can simply sign up again for a
// fresh code.
func dispatchConfirmationCode(ctx context.Context, sender mailer.Sender, from string, user *models.User, code string) {
	msg := mailer.Message{
		From:    from,
		To:      user.Email,
		Subject: "Your confirmation code",
		Body:    fmt.Sprintf("Hello %s,\n\nYour confirmation code: %s\n", user.Username, code),
	}
	if err := sender.Send(ctx, msg); err != nil {
		observability.ConfirmationMailsTotal.WithLabelValues("error").Inc()
		middleware.Logger.ErrorContext(ctx, "failed to send confirmation code",
			"username", user.Username, "error", err)
		return
	}
	observability.ConfirmationMailsTotal.WithLabelValues("sent").Inc()
}

// newConfirmationCode returns a random code. UUIDs are long
// enough that brute force is not a concern and they paste cleanly from mail
// clients.
func newConfirmationCode() string {
	return uuid.New().String()
}
