package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/query"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	ListFunc           func(ctx context.Context) ([]*models.User, error)
	UpdateProfileFunc  func(ctx context.Context, id string, p models.UserProfile) (*models.User, error)
	SetBlockedFunc     func(ctx context.Context, id string, blocked bool) (*models.User, error)
	SetRoleFunc        func(ctx context.Context, id string, role models.Role) (*models.User, error)
	DeleteFunc         func(ctx context.Context, id string) error
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string, now time.Time) (*models.User, error)
	SetResetTokenFunc  func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ResetPasswordFunc  func(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
	ToggleWishlistFunc func(ctx context.Context, userID, productID string) (bool, error)
	WishlistFunc       func(ctx context.Context, userID string) ([]string, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, p models.UserProfile) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, p)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) SetBlocked(ctx context.Context, id string, blocked bool) (*models.User, error) {
	if m.SetBlockedFunc != nil {
		return m.SetBlockedFunc(ctx, id, blocked)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, id, role)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) (*models.User, error) {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash, now)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, tokenHash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, tokenHash, passwordHash, now)
	}
	return nil, models.ErrTokenExpired
}

func (m *MockUserRepository) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if m.ToggleWishlistFunc != nil {
		return m.ToggleWishlistFunc(ctx, userID, productID)
	}
	return true, nil
}

func (m *MockUserRepository) Wishlist(ctx context.Context, userID string) ([]string, error) {
	if m.WishlistFunc != nil {
		return m.WishlistFunc(ctx, userID)
	}
	return []string{}, nil
}

// MockProductRepository implements ProductRepository for testing
type MockProductRepository struct {
	CreateFunc    func(ctx context.Context, in models.ProductInput) (*models.Product, error)
	GetByIDFunc   func(ctx context.Context, id string) (*models.Product, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*models.Product, error)
	ListFunc      func(ctx context.Context, spec *query.Spec) ([]*models.Product, error)
	CountFunc     func(ctx context.Context, spec *query.Spec) (int64, error)
	UpdateFunc    func(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteFunc    func(ctx context.Context, id string) error
	RateFunc      func(ctx context.Context, productID, userID string, star int, comment *string) (*models.Product, error)
	AddImagesFunc func(ctx context.Context, productID string, images []models.ProductImage) (*models.Product, error)
}

func (m *MockProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) List(ctx context.Context, spec *query.Spec) ([]*models.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, spec)
	}
	return []*models.Product{}, nil
}

func (m *MockProductRepository) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, spec)
	}
	return 0, nil
}

func (m *MockProductRepository) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProductRepository) Rate(ctx context.Context, productID, userID string, star int, comment *string) (*models.Product, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, productID, userID, star, comment)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) AddImages(ctx context.Context, productID string, images []models.ProductImage) (*models.Product, error) {
	if m.AddImagesFunc != nil {
		return m.AddImagesFunc(ctx, productID, images)
	}
	return nil, models.ErrNotFound
}

// MockProductCategoryRepository implements ProductCategoryRepository for testing
type MockProductCategoryRepository struct {
	CreateFunc       func(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error)
	GetByIDFunc      func(ctx context.Context, id string) (*models.ProductCategory, error)
	GetBySlugFunc    func(ctx context.Context, slug string) (*models.ProductCategory, error)
	ListFunc         func(ctx context.Context) ([]*models.ProductCategory, error)
	UpdateFunc       func(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error)
	IsDescendantFunc func(ctx context.Context, ancestor, candidate string) (bool, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockProductCategoryRepository) Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductCategoryRepository) GetByID(ctx context.Context, id string) (*models.ProductCategory, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductCategoryRepository) List(ctx context.Context) ([]*models.ProductCategory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.ProductCategory{}, nil
}

func (m *MockProductCategoryRepository) Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductCategoryRepository) IsDescendant(ctx context.Context, ancestor, candidate string) (bool, error) {
	if m.IsDescendantFunc != nil {
		return m.IsDescendantFunc(ctx, ancestor, candidate)
	}
	return false, nil
}

func (m *MockProductCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBlogCategoryRepository implements BlogCategoryRepository for testing
type MockBlogCategoryRepository struct {
	CreateFunc    func(ctx context.Context, name, slug string) (*models.BlogCategory, error)
	GetByIDFunc   func(ctx context.Context, id string) (*models.BlogCategory, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*models.BlogCategory, error)
	ListFunc      func(ctx context.Context) ([]*models.BlogCategory, error)
	UpdateFunc    func(ctx context.Context, id, name, slug string) (*models.BlogCategory, error)
	DeleteFunc    func(ctx context.Context, id string) error
}

func (m *MockBlogCategoryRepository) Create(ctx context.Context, name, slug string) (*models.BlogCategory, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, slug)
	}
	return &models.BlogCategory{ID: "bcat_123", Name: name, Slug: slug}, nil
}

func (m *MockBlogCategoryRepository) GetByID(ctx context.Context, id string) (*models.BlogCategory, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogCategory, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogCategoryRepository) List(ctx context.Context) ([]*models.BlogCategory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.BlogCategory{}, nil
}

func (m *MockBlogCategoryRepository) Update(ctx context.Context, id, name, slug string) (*models.BlogCategory, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, name, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBrandRepository implements BrandRepository for testing
type MockBrandRepository struct {
	CreateFunc  func(ctx context.Context, name, slug string, logo *string) (*models.Brand, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Brand, error)
	ListFunc    func(ctx context.Context) ([]*models.Brand, error)
	UpdateFunc  func(ctx context.Context, id, name, slug string, logo *string) (*models.Brand, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockBrandRepository) Create(ctx context.Context, name, slug string, logo *string) (*models.Brand, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, slug, logo)
	}
	return &models.Brand{ID: "brand_123", Name: name, Slug: slug, Logo: logo}, nil
}

func (m *MockBrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBrandRepository) List(ctx context.Context) ([]*models.Brand, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Brand{}, nil
}

func (m *MockBrandRepository) Update(ctx context.Context, id, name, slug string, logo *string) (*models.Brand, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, name, slug, logo)
	}
	return nil, models.ErrNotFound
}

func (m *MockBrandRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCouponRepository implements CouponRepository for testing
type MockCouponRepository struct {
	CreateFunc  func(ctx context.Context, in models.CouponInput) (*models.Coupon, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Coupon, error)
	ListFunc    func(ctx context.Context) ([]*models.Coupon, error)
	UpdateFunc  func(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockCouponRepository) Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Coupon{ID: "coupon_123", Name: in.Name, Expiry: in.Expiry, Discount: in.Discount}, nil
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCouponRepository) List(ctx context.Context) ([]*models.Coupon, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Coupon{}, nil
}

func (m *MockCouponRepository) Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return nil, models.ErrNotFound
}

func (m *MockCouponRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBlogRepository implements BlogRepository for testing
type MockBlogRepository struct {
	CreateFunc         func(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.Blog, error)
	ViewBySlugFunc     func(ctx context.Context, slug string) (*models.Blog, error)
	ListFunc           func(ctx context.Context) ([]*models.Blog, error)
	UpdateFunc         func(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error)
	SetImageFunc       func(ctx context.Context, id, url string) (*models.Blog, error)
	DeleteFunc         func(ctx context.Context, id string) error
	ToggleReactionFunc func(ctx context.Context, blogID, userID string, kind models.Reaction) error
}

func (m *MockBlogRepository) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Blog{ID: "blog_123", Title: in.Title, Slug: in.Slug}, nil
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) ViewBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	if m.ViewBySlugFunc != nil {
		return m.ViewBySlugFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Blog{}, nil
}

func (m *MockBlogRepository) Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) SetImage(ctx context.Context, id, url string) (*models.Blog, error) {
	if m.SetImageFunc != nil {
		return m.SetImageFunc(ctx, id, url)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBlogRepository) ToggleReaction(ctx context.Context, blogID, userID string, kind models.Reaction) error {
	if m.ToggleReactionFunc != nil {
		return m.ToggleReactionFunc(ctx, blogID, userID, kind)
	}
	return nil
}

// MockEmailService records sent messages.
type MockEmailService struct {
	mu   sync.Mutex
	Sent []PasswordResetMessage
	Err  error
}

func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, msg PasswordResetMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MockImageStore keeps uploaded keys in memory.
type MockImageStore struct {
	UploadErr error
	Uploaded  []string
	Deleted   []string
}

func (m *MockImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.Uploaded = append(m.Uploaded, key)
	return "https://cdn.example.com/" + key, nil
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	m.Deleted = append(m.Deleted, key)
	return nil
}

const TestPassword = "SecurePassword123!"

var (
	testHashOnce sync.Once
	testHash     string
)

// NewTestUser creates a test user whose password is TestPassword
func NewTestUser(id, email, firstName, lastName string) *models.User {
	testHashOnce.Do(func() {
		testHash, _ = pkgauth.HashPassword(TestPassword)
	})
	hash := testHash
	now := time.Now()
	return &models.User{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Slug:         firstName + "-" + lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestAdmin creates a test user holding the admin role
func NewTestAdmin(id, email string) *models.User {
	u := NewTestUser(id, email, "Admin", "User")
	u.Role = models.RoleAdmin
	return u
}
