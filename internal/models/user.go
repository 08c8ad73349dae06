// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the closed set of user roles. Authorization rules compare against
// these values only; no other role strings are accepted.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account in the review catalog.
//
// ConfirmationHash holds a bcrypt hash of the user's current confirmation
// code. The plaintext code is generated on registration, delivered by mail,
// and never stored.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:150;unique;not null" json:"username"`
	Email            string    `gorm:"size:254;unique;not null" json:"email"`
	FirstName        string    `gorm:"size:150" json:"first_name"`
	LastName         string    `gorm:"size:150" json:"last_name"`
	Role             Role      `gorm:"size:20;not null;default:user" json:"role"`
	Bio              string    `json:"bio"`
	ConfirmationHash string    `gorm:"size:128" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Reviews  []Review  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
