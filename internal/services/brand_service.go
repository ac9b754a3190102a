package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/storefront/internal/models"
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	Create(ctx context.Context, name, slug string, logo *string) (*models.Brand, error)
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	List(ctx context.Context) ([]*models.Brand, error)
	Update(ctx context.Context, id, name, slug string, logo *string) (*models.Brand, error)
	Delete(ctx context.Context, id string) error
}

type BrandService struct {
	repo   BrandRepository
	logger *slog.Logger
}

func NewBrandService(repo BrandRepository, logger *slog.Logger) *BrandService {
	return &BrandService{repo: repo, logger: logger}
}

func (s *BrandService) List(ctx context.Context) ([]*models.Brand, error) {
	brands, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list brands", err)
	}
	return brands, nil
}

func (s *BrandService) Get(ctx context.Context, id string) (*models.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "failed to get brand", err, slog.String("brand_id", id))
	}
	return brand, nil
}

func (s *BrandService) Create(ctx context.Context, name string, logo *string) (*models.Brand, error) {
	name, sl, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}

	brand, err := s.repo.Create(ctx, name, sl, logo)
	if err != nil {
		return nil, storeError(s.logger, "failed to create brand", err)
	}

	s.logger.Info("brand created", slog.String("brand_id", brand.ID))
	return brand, nil
}

func (s *BrandService) Update(ctx context.Context, id, name string, logo *string) (*models.Brand, error) {
	name, sl, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}

	brand, err := s.repo.Update(ctx, id, name, sl, logo)
	if err != nil {
		return nil, storeError(s.logger, "failed to update brand", err, slog.String("brand_id", id))
	}

	s.logger.Info("brand updated", slog.String("brand_id", id))
	return brand, nil
}

// Delete removes a brand. Products keep existing without one.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete brand", err, slog.String("brand_id", id))
	}
	s.logger.Info("brand deleted", slog.String("brand_id", id))
	return nil
}
