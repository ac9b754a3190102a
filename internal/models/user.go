package models

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Slug              string     `json:"slug"`
	Email             string     `json:"email"`
	Mobile            *string    `json:"mobile"`
	Gender            *string    `json:"gender"`
	Photo             *string    `json:"photo"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	IsBlocked         bool       `json:"isBlocked"`
	Verified          bool       `json:"verify"`
	PasswordChangedAt *time.Time `json:"passwordChangedAt"`
	ResetTokenHash    *string    `json:"-"`
	ResetExpiresAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// DisplayName is the name used in outgoing mail.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy with every credential field cleared.
func (u *User) Public() *User {
	c := *u
	c.PasswordHash = ""
	c.ResetTokenHash = nil
	c.ResetExpiresAt = nil
	return &c
}

// UserProfile holds the mutable profile fields of a user.
type UserProfile struct {
	FirstName string
	LastName  string
	Slug      string
	Mobile    *string
	Gender    *string
}
