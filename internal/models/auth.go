package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeSession marks a session credential.
const TokenTypeSession = "session"

type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssuedBefore reports whether the token was issued before t, at the
// second granularity JWT timestamps carry.
func (c *TokenClaims) IssuedBefore(t time.Time) bool {
	if c.IssuedAt == nil {
		return true
	}
	return c.IssuedAt.Time.Before(t.Truncate(time.Second))
}

// ResetToken is a freshly issued password-reset credential. Secret goes to
// the user; only Hash is persisted.
type ResetToken struct {
	Secret    string
	Hash      string
	ExpiresAt time.Time
}
