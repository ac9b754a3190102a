package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

func writeBadRequest(w http.ResponseWriter, message string) {
	pkghttp.WriteBadRequest(w, message)
}

// writeServiceError maps a service error onto its HTTP status. Validation
// messages are passed to the client; everything unclassified is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, validationMessage(err))
	case errors.Is(err, models.ErrPageOutOfRange):
		pkghttp.WriteBadRequest(w, models.ErrPageOutOfRange.Error())
	case errors.Is(err, models.ErrTokenExpired):
		pkghttp.WriteBadRequest(w, "Token expired, please try again later")
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrExpiredToken):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrAccountBlocked):
		pkghttp.WriteForbidden(w, "Account is blocked")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Resource already exists")
	case errors.Is(err, models.ErrStorageDisabled):
		pkghttp.WriteError(w, http.StatusServiceUnavailable, "Image storage is not configured")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
	if msg == "" || msg == models.ErrValidation.Error() {
		return "Validation failed"
	}
	return msg
}
