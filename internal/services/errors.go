package services

import (
	"errors"
	"log/slog"

	"github.com/BradenHooton/storefront/internal/models"
)

// storeError passes classified store errors through to the caller and
// logs everything else, replacing it with ErrInternalServer.
func storeError(logger *slog.Logger, msg string, err error, attrs ...any) error {
	for _, known := range []error{
		models.ErrNotFound,
		models.ErrConflict,
		models.ErrValidation,
		models.ErrTokenExpired,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	logger.Error(msg, append(attrs, slog.Any("error", err))...)
	return models.ErrInternalServer
}
