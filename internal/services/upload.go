package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
)

const (
	MaxImagesPerUpload = 5
	MaxImageSize       = 5 << 20
)

// Upload is one file taken from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func validateUploads(files []Upload) error {
	if len(files) == 0 {
		return models.NewValidationError("at least one image is required")
	}
	if len(files) > MaxImagesPerUpload {
		return models.NewValidationError("at most %d images per upload", MaxImagesPerUpload)
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return models.NewValidationError("%s is not an image", f.Filename)
		}
		if f.Size > MaxImageSize {
			return models.NewValidationError("%s exceeds the 5MB limit", f.Filename)
		}
	}
	return nil
}

// storeImages uploads files under owner. On failure the files already
// stored are removed again.
func storeImages(ctx context.Context, store ImageStore, logger *slog.Logger, owner string, files []Upload) ([]models.ProductImage, error) {
	images := make([]models.ProductImage, 0, len(files))
	for _, f := range files {
		key := ImageKey(owner, f.Filename)
		url, err := store.Upload(ctx, key, f.Body, f.Size, f.ContentType)
		if err != nil {
			discardImages(ctx, store, logger, images)
			if errors.Is(err, models.ErrStorageDisabled) {
				return nil, err
			}
			logger.Error("failed to upload image", slog.String("key", key), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		images = append(images, models.ProductImage{URL: url, StorageKey: key})
	}
	return images, nil
}

// discardImages deletes stored objects, logging failures.
func discardImages(ctx context.Context, store ImageStore, logger *slog.Logger, images []models.ProductImage) {
	for _, img := range images {
		if err := store.Delete(ctx, img.StorageKey); err != nil {
			logger.Warn("failed to delete image", slog.String("key", img.StorageKey), slog.Any("error", err))
		}
	}
}
