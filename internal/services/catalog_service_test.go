package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProductCategoryService_Create_WithParent(t *testing.T) {
	var got models.ProductCategoryInput
	repo := &MockProductCategoryRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.ProductCategory, error) {
			return &models.ProductCategory{ID: id}, nil
		},
		CreateFunc: func(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
			got = in
			return &models.ProductCategory{ID: "c2", Name: in.Name, Slug: in.Slug, ParentID: in.ParentID}, nil
		},
	}
	svc := NewProductCategoryService(repo, slog.Default())

	cat, err := svc.Create(context.Background(), models.ProductCategoryInput{Name: "Running Shoes", ParentID: strPtr("c1")})

	require.NoError(t, err)
	assert.Equal(t, "running-shoes", got.Slug)
	assert.Equal(t, "c1", *cat.ParentID)
}

func TestProductCategoryService_Create_MissingParent(t *testing.T) {
	svc := NewProductCategoryService(&MockProductCategoryRepository{}, slog.Default())

	_, err := svc.Create(context.Background(), models.ProductCategoryInput{Name: "Shoes", ParentID: strPtr("missing")})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProductCategoryService_Create_EmptyParentIsTopLevel(t *testing.T) {
	repo := &MockProductCategoryRepository{
		CreateFunc: func(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
			assert.Nil(t, in.ParentID)
			return &models.ProductCategory{ID: "c1", Name: in.Name}, nil
		},
	}
	svc := NewProductCategoryService(repo, slog.Default())

	_, err := svc.Create(context.Background(), models.ProductCategoryInput{Name: "Shoes", ParentID: strPtr("")})

	require.NoError(t, err)
}

func TestProductCategoryService_Update_SelfParent(t *testing.T) {
	svc := NewProductCategoryService(&MockProductCategoryRepository{}, slog.Default())

	_, err := svc.Update(context.Background(), "c1", models.ProductCategoryInput{Name: "Shoes", ParentID: strPtr("c1")})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProductCategoryService_Update_DescendantParent(t *testing.T) {
	repo := &MockProductCategoryRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.ProductCategory, error) {
			return &models.ProductCategory{ID: id}, nil
		},
		IsDescendantFunc: func(ctx context.Context, ancestor, candidate string) (bool, error) {
			return ancestor == "c1" && candidate == "c3", nil
		},
		UpdateFunc: func(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error) {
			t.Fatal("update must not run when it would create a cycle")
			return nil, nil
		},
	}
	svc := NewProductCategoryService(repo, slog.Default())

	_, err := svc.Update(context.Background(), "c1", models.ProductCategoryInput{Name: "Shoes", ParentID: strPtr("c3")})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProductCategoryService_Delete_NotFound(t *testing.T) {
	repo := &MockProductCategoryRepository{
		DeleteFunc: func(ctx context.Context, id string) error { return models.ErrNotFound },
	}
	svc := NewProductCategoryService(repo, slog.Default())

	assert.ErrorIs(t, svc.Delete(context.Background(), "c1"), models.ErrNotFound)
}

func TestBlogCategoryService_CreateAndUpdate(t *testing.T) {
	repo := &MockBlogCategoryRepository{
		UpdateFunc: func(ctx context.Context, id, name, slug string) (*models.BlogCategory, error) {
			return &models.BlogCategory{ID: id, Name: name, Slug: slug}, nil
		},
	}
	svc := NewBlogCategoryService(repo, slog.Default())

	created, err := svc.Create(context.Background(), " Travel Tips ")
	require.NoError(t, err)
	assert.Equal(t, "Travel Tips", created.Name)
	assert.Equal(t, "travel-tips", created.Slug)

	updated, err := svc.Update(context.Background(), "bc1", "Road Trips")
	require.NoError(t, err)
	assert.Equal(t, "road-trips", updated.Slug)

	_, err = svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBrandService_Create_Duplicate(t *testing.T) {
	repo := &MockBrandRepository{
		CreateFunc: func(ctx context.Context, name, slug string, logo *string) (*models.Brand, error) {
			return nil, models.ErrConflict
		},
	}
	svc := NewBrandService(repo, slog.Default())

	_, err := svc.Create(context.Background(), "Acme", nil)

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestBrandService_Create_Success(t *testing.T) {
	svc := NewBrandService(&MockBrandRepository{}, slog.Default())

	brand, err := svc.Create(context.Background(), "Acme Sports", strPtr("https://cdn.example.com/acme.png"))

	require.NoError(t, err)
	assert.Equal(t, "acme-sports", brand.Slug)
	assert.Equal(t, "https://cdn.example.com/acme.png", *brand.Logo)
}

func TestCouponService_Create_NormalizesName(t *testing.T) {
	svc := NewCouponService(&MockCouponRepository{}, slog.Default())

	coupon, err := svc.Create(context.Background(), models.CouponInput{
		Name:     " summer25 ",
		Expiry:   time.Now().Add(24 * time.Hour),
		Discount: 25,
	})

	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", coupon.Name)
}

func TestCouponService_Create_Validation(t *testing.T) {
	svc := NewCouponService(&MockCouponRepository{}, slog.Default())
	expiry := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		in   models.CouponInput
	}{
		{"missing name", models.CouponInput{Expiry: expiry, Discount: 10}},
		{"missing expiry", models.CouponInput{Name: "X", Discount: 10}},
		{"zero discount", models.CouponInput{Name: "X", Expiry: expiry}},
		{"discount above 100", models.CouponInput{Name: "X", Expiry: expiry, Discount: 100.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestBlogService_Create_DerivesSlug(t *testing.T) {
	svc := NewBlogService(&MockBlogRepository{}, &MockImageStore{}, slog.Default())

	blog, err := svc.Create(context.Background(), models.BlogInput{Title: "Ten Trail Tips"})

	require.NoError(t, err)
	assert.Equal(t, "ten-trail-tips", blog.Slug)
}

func TestBlogService_React_Toggles(t *testing.T) {
	reactions := map[string]models.Reaction{}
	repo := &MockBlogRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Blog, error) {
			b := &models.Blog{ID: id, Likes: []string{}, Dislikes: []string{}}
			for user, kind := range reactions {
				if kind == models.ReactionLike {
					b.Likes = append(b.Likes, user)
				} else {
					b.Dislikes = append(b.Dislikes, user)
				}
			}
			return b, nil
		},
		ToggleReactionFunc: func(ctx context.Context, blogID, userID string, kind models.Reaction) error {
			if reactions[userID] == kind {
				delete(reactions, userID)
			} else {
				reactions[userID] = kind
			}
			return nil
		},
	}
	svc := NewBlogService(repo, &MockImageStore{}, slog.Default())
	ctx := context.Background()

	b, err := svc.React(ctx, "u1", "b1", models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, b.Likes)
	assert.Empty(t, b.Dislikes)

	b, err = svc.React(ctx, "u1", "b1", models.ReactionDislike)
	require.NoError(t, err)
	assert.Empty(t, b.Likes)
	assert.Equal(t, []string{"u1"}, b.Dislikes)

	b, err = svc.React(ctx, "u1", "b1", models.ReactionDislike)
	require.NoError(t, err)
	assert.Empty(t, b.Likes)
	assert.Empty(t, b.Dislikes)
}

func TestBlogService_React_UnknownBlog(t *testing.T) {
	svc := NewBlogService(&MockBlogRepository{}, &MockImageStore{}, slog.Default())

	_, err := svc.React(context.Background(), "u1", "missing", models.ReactionLike)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBlogService_SetImage_Success(t *testing.T) {
	repo := &MockBlogRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Blog, error) {
			return &models.Blog{ID: id}, nil
		},
		SetImageFunc: func(ctx context.Context, id, url string) (*models.Blog, error) {
			return &models.Blog{ID: id, Image: &url}, nil
		},
	}
	svc := NewBlogService(repo, &MockImageStore{}, slog.Default())

	blog, err := svc.SetImage(context.Background(), "b1", Upload{
		Filename: "cover.webp", ContentType: "image/webp", Size: 3, Body: strings.NewReader("img"),
	})

	require.NoError(t, err)
	require.NotNil(t, blog.Image)
	assert.True(t, strings.HasPrefix(*blog.Image, "https://cdn.example.com/blogs/b1/"))
	assert.True(t, strings.HasSuffix(*blog.Image, ".webp"))
}
