package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrTokenExpired = errors.New("reset token is invalid or has expired")

	// Catalog errors
	ErrPageOutOfRange = errors.New("this page does not exist")

	// Account state errors
	ErrAccountBlocked = errors.New("account is blocked")

	// Collaborator errors
	ErrStorageDisabled = errors.New("image storage is not configured")
)

// NewValidationError wraps ErrValidation with a human readable reason.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
