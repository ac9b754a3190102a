package services

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/query"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, spec *query.Spec) ([]*models.Product, error)
	Count(ctx context.Context, spec *query.Spec) (int64, error)
	Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Rate(ctx context.Context, productID, userID string, star int, comment *string) (*models.Product, error)
	AddImages(ctx context.Context, productID string, images []models.ProductImage) (*models.Product, error)
}

// ProductListing is one page of a product query. Products are projected
// to the requested fields.
type ProductListing struct {
	Products []map[string]any `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ProductService handles catalog business logic
type ProductService struct {
	repo   ProductRepository
	images ImageStore
	logger *slog.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo ProductRepository, images ImageStore, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// List runs a catalog query. The total is the size of the filtered set.
func (s *ProductService) List(ctx context.Context, params url.Values) (*ProductListing, error) {
	spec, err := query.Build(params, repositories.ProductSchema)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, spec)
	if err != nil {
		return nil, storeError(s.logger, "failed to count products", err)
	}
	if err := spec.CheckPage(total); err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, storeError(s.logger, "failed to list products", err)
	}

	projected, err := query.ProjectAll(products, spec.Fields)
	if err != nil {
		s.logger.Error("failed to project products", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &ProductListing{
		Products: projected,
		Total:    total,
		Page:     spec.Page,
		Limit:    spec.Limit,
	}, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(s.logger, "failed to get product", err, slog.String("slug", slug))
	}
	return p, nil
}

func normalizeProduct(in models.ProductInput) (models.ProductInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, models.NewValidationError("title is required")
	}
	if in.Price < 0 {
		return in, models.NewValidationError("price must not be negative")
	}
	if in.Quantity < 0 {
		return in, models.NewValidationError("quantity must not be negative")
	}
	in.Slug = slug.Make(in.Title)
	if in.Slug == "" {
		return in, models.NewValidationError("title must contain letters or digits")
	}
	return in, nil
}

// Create adds a product. Its slug is derived from the title.
func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to create product", err)
	}

	s.logger.Info("product created", slog.String("product_id", p.ID))
	return p, nil
}

// Update replaces the writable fields of a product and recomputes its slug.
func (s *ProductService) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to update product", err, slog.String("product_id", id))
	}

	s.logger.Info("product updated", slog.String("product_id", id))
	return p, nil
}

// Delete removes a product together with its stored images.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError(s.logger, "failed to get product", err, slog.String("product_id", id))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete product", err, slog.String("product_id", id))
	}

	discardImages(ctx, s.images, s.logger, p.Images)
	s.logger.Info("product deleted", slog.String("product_id", id))
	return nil
}

// Rate records the user's star rating and returns the product with its
// recomputed total.
func (s *ProductService) Rate(ctx context.Context, userID, productID string, star int, comment *string) (*models.Product, error) {
	if productID == "" {
		return nil, models.NewValidationError("productId is required")
	}
	if star < 1 || star > 5 {
		return nil, models.NewValidationError("star must be between 1 and 5")
	}

	p, err := s.repo.Rate(ctx, productID, userID, star, comment)
	if err != nil {
		return nil, storeError(s.logger, "failed to rate product", err,
			slog.String("product_id", productID), slog.String("user_id", userID))
	}

	s.logger.Info("product rated", slog.String("product_id", productID), slog.Int("total_rating", p.TotalRating))
	return p, nil
}

// AddImages uploads files to object storage and attaches them to the product.
func (s *ProductService) AddImages(ctx context.Context, productID string, files []Upload) (*models.Product, error) {
	if err := validateUploads(files); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, storeError(s.logger, "failed to get product", err, slog.String("product_id", productID))
	}

	images, err := storeImages(ctx, s.images, s.logger, "products/"+productID, files)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.AddImages(ctx, productID, images)
	if err != nil {
		discardImages(ctx, s.images, s.logger, images)
		return nil, storeError(s.logger, "failed to attach images", err, slog.String("product_id", productID))
	}

	s.logger.Info("product images added", slog.String("product_id", productID), slog.Int("count", len(images)))
	return p, nil
}
