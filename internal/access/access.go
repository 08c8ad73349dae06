// Package access implements the authorization rules for the API: who may
// perform which HTTP method on which resource kind, and who may mutate a
// specific authored object. All checks are pure functions over the
// requester's role; no I/O happens here.
package access

import (
	"github.com/gofiber/fiber/v2"

	"reviewhub/internal/models"
)

// Resource identifies a collection for collection-level checks.
type Resource string

const (
	ResourceCategories Resource = "categories"
	ResourceGenres     Resource = "genres"
	ResourceTitles     Resource = "titles"
	ResourceReviews    Resource = "reviews"
	ResourceComments   Resource = "comments"
	ResourceUsers      Resource = "users"
)

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// CanPerform is the collection-level check. User administration is admin-only
// for every method. Elsewhere safe methods are always allowed; unsafe methods
// on catalog resources require the admin role, and on reviews and comments
// any authenticated caller (object-level rules apply on top).
func CanPerform(role models.Role, authenticated bool, method string, resource Resource) bool {
	if resource == ResourceUsers {
		return authenticated && role == models.RoleAdmin
	}
	if IsSafeMethod(method) {
		return true
	}
	switch resource {
	case ResourceCategories, ResourceGenres, ResourceTitles:
		return authenticated && role == models.RoleAdmin
	case ResourceReviews, ResourceComments:
		return authenticated
	}
	return false
}

// CanActOnObject is the object-level check for authored resources. Safe
// methods are always allowed; mutation is limited to the author, moderators,
// and admins.
func CanActOnObject(requester *models.User, method string, authorID uint) bool {
	if IsSafeMethod(method) {
		return true
	}
	if requester == nil {
		return false
	}
	if requester.IsAdmin() || requester.IsModerator() {
		return true
	}
	return requester.ID == authorID
}

// CanSetRole reports whether the requester may change a profile's role field.
// Only admins may; for everyone else a role value in a self-update is
// silently dropped by the caller, not rejected.
func CanSetRole(requester *models.User) bool {
	return requester != nil && requester.IsAdmin()
}
