// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/models"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxSlugLen     = 50
	maxNameLen     = 256
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// "me" is the reserved path segment for the current-user endpoint and can
// never be a username.
const reservedUsername = "me"

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if username == "" {
		return models.NewValidationError("username is required")
	}
	if len(username) > maxUsernameLen {
		return models.NewValidationError(fmt.Sprintf("username must not exceed %d characters", maxUsernameLen))
	}
	if strings.EqualFold(username, reservedUsername) {
		return models.NewValidationError(fmt.Sprintf("username %q is reserved", reservedUsername))
	}
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username may contain only letters, digits, and @/./+/-/_ characters")
	}
	return nil
}

// ValidateEmail checks basic email shape and length.
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("email is required")
	}
	if len(email) > maxEmailLen {
		return models.NewValidationError(fmt.Sprintf("email must not exceed %d characters", maxEmailLen))
	}
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("invalid email address")
	}
	return nil
}

// ValidateSlug checks a category/genre slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return models.NewValidationError("slug is required")
	}
	if len(slug) > maxSlugLen {
		return models.NewValidationError(fmt.Sprintf("slug must not exceed %d characters", maxSlugLen))
	}
	if !slugRegex.MatchString(slug) {
		return models.NewValidationError("slug may contain only letters, digits, hyphens, and underscores")
	}
	return nil
}

// ValidateName checks a category/genre/title display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("name is required")
	}
	if len(name) > maxNameLen {
		return models.NewValidationError(fmt.Sprintf("name must not exceed %d characters", maxNameLen))
	}
	return nil
}

// ValidateYear rejects non-positive years and years in the future.
func ValidateYear(year int) error {
	if year <= 0 {
		return models.NewValidationError("year must be greater than 0")
	}
	if current := time.Now().Year(); year > current {
		return models.NewValidationError(fmt.Sprintf("year must not be later than %d", current))
	}
	return nil
}
