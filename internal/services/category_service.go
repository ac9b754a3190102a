package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// ProductCategoryRepository defines the interface for product category data access
type ProductCategoryRepository interface {
	Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error)
	GetByID(ctx context.Context, id string) (*models.ProductCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error)
	List(ctx context.Context) ([]*models.ProductCategory, error)
	Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error)
	IsDescendant(ctx context.Context, ancestor, candidate string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// BlogCategoryRepository defines the interface for blog category data access
type BlogCategoryRepository interface {
	Create(ctx context.Context, name, slug string) (*models.BlogCategory, error)
	GetByID(ctx context.Context, id string) (*models.BlogCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogCategory, error)
	List(ctx context.Context) ([]*models.BlogCategory, error)
	Update(ctx context.Context, id, name, slug string) (*models.BlogCategory, error)
	Delete(ctx context.Context, id string) error
}

// nameAndSlug trims a display name and derives its slug.
func nameAndSlug(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", models.NewValidationError("name is required")
	}
	s := slug.Make(name)
	if s == "" {
		return "", "", models.NewValidationError("name must contain letters or digits")
	}
	return name, s, nil
}

// ProductCategoryService manages the product category tree. A category's
// children are the categories naming it as parent.
type ProductCategoryService struct {
	repo   ProductCategoryRepository
	logger *slog.Logger
}

func NewProductCategoryService(repo ProductCategoryRepository, logger *slog.Logger) *ProductCategoryService {
	return &ProductCategoryService{repo: repo, logger: logger}
}

func (s *ProductCategoryService) List(ctx context.Context) ([]*models.ProductCategory, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list product categories", err)
	}
	return cats, nil
}

func (s *ProductCategoryService) GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	cat, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(s.logger, "failed to get product category", err, slog.String("slug", slug))
	}
	return cat, nil
}

// checkParent verifies that parent exists and that adopting it would not
// put id inside its own subtree.
func (s *ProductCategoryService) checkParent(ctx context.Context, id string, parent *string) error {
	if parent == nil || *parent == "" {
		return nil
	}
	if *parent == id {
		return models.NewValidationError("a category cannot be its own parent")
	}

	if _, err := s.repo.GetByID(ctx, *parent); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewValidationError("parent category does not exist")
		}
		return storeError(s.logger, "failed to get parent category", err, slog.String("category_id", *parent))
	}

	if id == "" {
		return nil
	}
	cycle, err := s.repo.IsDescendant(ctx, id, *parent)
	if err != nil {
		return storeError(s.logger, "failed to check category tree", err, slog.String("category_id", id))
	}
	if cycle {
		return models.NewValidationError("parent category cannot be a descendant of the category")
	}
	return nil
}

func (s *ProductCategoryService) normalize(ctx context.Context, id string, in models.ProductCategoryInput) (models.ProductCategoryInput, error) {
	name, sl, err := nameAndSlug(in.Name)
	if err != nil {
		return in, err
	}
	in.Name, in.Slug = name, sl
	if in.ParentID != nil && *in.ParentID == "" {
		in.ParentID = nil
	}
	if err := s.checkParent(ctx, id, in.ParentID); err != nil {
		return in, err
	}
	return in, nil
}

func (s *ProductCategoryService) Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	in, err := s.normalize(ctx, "", in)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to create product category", err)
	}

	s.logger.Info("product category created", slog.String("category_id", cat.ID))
	return cat, nil
}

func (s *ProductCategoryService) Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	in, err := s.normalize(ctx, id, in)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to update product category", err, slog.String("category_id", id))
	}

	s.logger.Info("product category updated", slog.String("category_id", id))
	return cat, nil
}

// Delete removes a category. Its children become top-level categories.
func (s *ProductCategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete product category", err, slog.String("category_id", id))
	}
	s.logger.Info("product category deleted", slog.String("category_id", id))
	return nil
}

type BlogCategoryService struct {
	repo   BlogCategoryRepository
	logger *slog.Logger
}

func NewBlogCategoryService(repo BlogCategoryRepository, logger *slog.Logger) *BlogCategoryService {
	return &BlogCategoryService{repo: repo, logger: logger}
}

func (s *BlogCategoryService) List(ctx context.Context) ([]*models.BlogCategory, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list blog categories", err)
	}
	return cats, nil
}

func (s *BlogCategoryService) GetBySlug(ctx context.Context, slug string) (*models.BlogCategory, error) {
	cat, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(s.logger, "failed to get blog category", err, slog.String("slug", slug))
	}
	return cat, nil
}

func (s *BlogCategoryService) Create(ctx context.Context, name string) (*models.BlogCategory, error) {
	name, sl, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.Create(ctx, name, sl)
	if err != nil {
		return nil, storeError(s.logger, "failed to create blog category", err)
	}

	s.logger.Info("blog category created", slog.String("category_id", cat.ID))
	return cat, nil
}

func (s *BlogCategoryService) Update(ctx context.Context, id, name string) (*models.BlogCategory, error) {
	name, sl, err := nameAndSlug(name)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.Update(ctx, id, name, sl)
	if err != nil {
		return nil, storeError(s.logger, "failed to update blog category", err, slog.String("category_id", id))
	}

	s.logger.Info("blog category updated", slog.String("category_id", id))
	return cat, nil
}

func (s *BlogCategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete blog category", err, slog.String("category_id", id))
	}
	s.logger.Info("blog category deleted", slog.String("category_id", id))
	return nil
}
