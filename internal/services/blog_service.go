package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// BlogRepository defines the interface for blog data access
type BlogRepository interface {
	Create(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	ViewBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context) ([]*models.Blog, error)
	Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error)
	SetImage(ctx context.Context, id, url string) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	ToggleReaction(ctx context.Context, blogID, userID string, kind models.Reaction) error
}

type BlogService struct {
	repo   BlogRepository
	images ImageStore
	logger *slog.Logger
}

func NewBlogService(repo BlogRepository, images ImageStore, logger *slog.Logger) *BlogService {
	return &BlogService{repo: repo, images: images, logger: logger}
}

func normalizeBlog(in models.BlogInput) (models.BlogInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, models.NewValidationError("title is required")
	}
	in.Slug = slug.Make(in.Title)
	if in.Slug == "" {
		return in, models.NewValidationError("title must contain letters or digits")
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	return in, nil
}

func (s *BlogService) List(ctx context.Context) ([]*models.Blog, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list blogs", err)
	}
	return blogs, nil
}

// View returns the blog and counts the read.
func (s *BlogService) View(ctx context.Context, slug string) (*models.Blog, error) {
	blog, err := s.repo.ViewBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(s.logger, "failed to view blog", err, slog.String("slug", slug))
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	in, err := normalizeBlog(in)
	if err != nil {
		return nil, err
	}

	blog, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to create blog", err)
	}

	s.logger.Info("blog created", slog.String("blog_id", blog.ID))
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error) {
	in, err := normalizeBlog(in)
	if err != nil {
		return nil, err
	}

	blog, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, storeError(s.logger, "failed to update blog", err, slog.String("blog_id", id))
	}

	s.logger.Info("blog updated", slog.String("blog_id", id))
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(s.logger, "failed to delete blog", err, slog.String("blog_id", id))
	}
	s.logger.Info("blog deleted", slog.String("blog_id", id))
	return nil
}

// React toggles the user's like or dislike. Reacting the same way twice
// withdraws the reaction; the opposite reaction is replaced.
func (s *BlogService) React(ctx context.Context, userID, blogID string, kind models.Reaction) (*models.Blog, error) {
	if blogID == "" {
		return nil, models.NewValidationError("blogId is required")
	}
	if _, err := s.repo.GetByID(ctx, blogID); err != nil {
		return nil, storeError(s.logger, "failed to get blog", err, slog.String("blog_id", blogID))
	}

	if err := s.repo.ToggleReaction(ctx, blogID, userID, kind); err != nil {
		return nil, storeError(s.logger, "failed to record reaction", err,
			slog.String("blog_id", blogID), slog.String("reaction", string(kind)))
	}

	blog, err := s.repo.GetByID(ctx, blogID)
	if err != nil {
		return nil, storeError(s.logger, "failed to get blog", err, slog.String("blog_id", blogID))
	}
	return blog, nil
}

// SetImage uploads the file and makes it the blog's cover image.
func (s *BlogService) SetImage(ctx context.Context, id string, file Upload) (*models.Blog, error) {
	if err := validateUploads([]Upload{file}); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, storeError(s.logger, "failed to get blog", err, slog.String("blog_id", id))
	}

	images, err := storeImages(ctx, s.images, s.logger, "blogs/"+id, []Upload{file})
	if err != nil {
		return nil, err
	}

	blog, err := s.repo.SetImage(ctx, id, images[0].URL)
	if err != nil {
		discardImages(ctx, s.images, s.logger, images)
		return nil, storeError(s.logger, "failed to set blog image", err, slog.String("blog_id", id))
	}

	s.logger.Info("blog image set", slog.String("blog_id", id))
	return blog, nil
}
