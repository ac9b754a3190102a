package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/BradenHooton/storefront/pkg/slug"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext attaches user as the authenticated caller
func WithAuthContext(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), user))
}

// WithURLParams sets chi route parameters on req
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedStatus, resp.Status)
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// NewTestUser builds a regular account for handler tests
func NewTestUser(id string) *models.User {
	return &models.User{ID: id, FirstName: "Test", LastName: "User", Email: id + "@example.com", Role: models.RoleUser}
}

// NewTestAdmin builds an admin account for handler tests
func NewTestAdmin(id string) *models.User {
	u := NewTestUser(id)
	u.Role = models.RoleAdmin
	return u
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	LoginFunc          func(ctx context.Context, email, password, ip string) (*services.Session, error)
	AdminLoginFunc     func(ctx context.Context, email, password, ip string) (*services.Session, error)
	UpdatePasswordFunc func(ctx context.Context, userID, oldPassword, newPassword, ip string) (*services.Session, error)
	ForgotPasswordFunc func(ctx context.Context, email, ip string) error
	ResetPasswordFunc  func(ctx context.Context, secret, password, ip string) (*models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ip string) (*services.Session, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password, ip)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, email, password, ip string) (*services.Session, error) {
	if m.AdminLoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.AdminLoginFunc(ctx, email, password, ip)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword, ip string) (*services.Session, error) {
	if m.UpdatePasswordFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.UpdatePasswordFunc(ctx, userID, oldPassword, newPassword, ip)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email, ip string) error {
	if m.ForgotPasswordFunc == nil {
		return nil
	}
	return m.ForgotPasswordFunc(ctx, email, ip)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, secret, password, ip string) (*models.User, error) {
	if m.ResetPasswordFunc == nil {
		return nil, models.ErrTokenExpired
	}
	return m.ResetPasswordFunc(ctx, secret, password, ip)
}

// MockUserService implements UserService and WishlistService for testing
type MockUserService struct {
	GetUserFunc        func(ctx context.Context, actor *models.User, id string) (*models.User, error)
	ListUsersFunc      func(ctx context.Context) ([]*models.User, error)
	UpdateProfileFunc  func(ctx context.Context, actor *models.User, id string, in services.ProfileInput) (*models.User, error)
	DeleteUserFunc     func(ctx context.Context, actor *models.User, id, ip string) error
	SetBlockedFunc     func(ctx context.Context, actor *models.User, id string, blocked bool, ip string) (*models.User, error)
	WishlistFunc       func(ctx context.Context, userID string) ([]string, error)
	ToggleWishlistFunc func(ctx context.Context, userID, productID string) ([]string, bool, error)
}

func (m *MockUserService) GetUser(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserFunc(ctx, actor, id)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor *models.User, id string, in services.ProfileInput) (*models.User, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, actor, id, in)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor *models.User, id, ip string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, actor, id, ip)
}

func (m *MockUserService) SetBlocked(ctx context.Context, actor *models.User, id string, blocked bool, ip string) (*models.User, error) {
	if m.SetBlockedFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetBlockedFunc(ctx, actor, id, blocked, ip)
}

func (m *MockUserService) Wishlist(ctx context.Context, userID string) ([]string, error) {
	if m.WishlistFunc == nil {
		return []string{}, nil
	}
	return m.WishlistFunc(ctx, userID)
}

func (m *MockUserService) ToggleWishlist(ctx context.Context, userID, productID string) ([]string, bool, error) {
	if m.ToggleWishlistFunc == nil {
		return []string{productID}, true, nil
	}
	return m.ToggleWishlistFunc(ctx, userID, productID)
}

// MockProductService implements ProductService for testing
type MockProductService struct {
	ListFunc      func(ctx context.Context, params url.Values) (*services.ProductListing, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*models.Product, error)
	CreateFunc    func(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateFunc    func(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteFunc    func(ctx context.Context, id string) error
	RateFunc      func(ctx context.Context, userID, productID string, star int, comment *string) (*models.Product, error)
	AddImagesFunc func(ctx context.Context, productID string, files []services.Upload) (*models.Product, error)
}

func (m *MockProductService) List(ctx context.Context, params url.Values) (*services.ProductListing, error) {
	if m.ListFunc == nil {
		return &services.ProductListing{Products: []map[string]any{}, Page: 1, Limit: 10}, nil
	}
	return m.ListFunc(ctx, params)
}

func (m *MockProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.GetBySlugFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetBySlugFunc(ctx, slug)
}

func (m *MockProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if m.CreateFunc == nil {
		return &models.Product{ID: "p1", Title: in.Title, Price: in.Price, Quantity: in.Quantity}, nil
	}
	return m.CreateFunc(ctx, in)
}

func (m *MockProductService) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, in)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *MockProductService) Rate(ctx context.Context, userID, productID string, star int, comment *string) (*models.Product, error) {
	if m.RateFunc == nil {
		return &models.Product{ID: productID, TotalRating: star}, nil
	}
	return m.RateFunc(ctx, userID, productID, star, comment)
}

func (m *MockProductService) AddImages(ctx context.Context, productID string, files []services.Upload) (*models.Product, error) {
	if m.AddImagesFunc == nil {
		return &models.Product{ID: productID}, nil
	}
	return m.AddImagesFunc(ctx, productID, files)
}

// MockBlogService implements BlogService for testing
type MockBlogService struct {
	ListFunc     func(ctx context.Context) ([]*models.Blog, error)
	ViewFunc     func(ctx context.Context, slug string) (*models.Blog, error)
	CreateFunc   func(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	UpdateFunc   func(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error)
	DeleteFunc   func(ctx context.Context, id string) error
	ReactFunc    func(ctx context.Context, userID, blogID string, kind models.Reaction) (*models.Blog, error)
	SetImageFunc func(ctx context.Context, id string, file services.Upload) (*models.Blog, error)
}

func (m *MockBlogService) List(ctx context.Context) ([]*models.Blog, error) {
	if m.ListFunc == nil {
		return []*models.Blog{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *MockBlogService) View(ctx context.Context, slug string) (*models.Blog, error) {
	if m.ViewFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ViewFunc(ctx, slug)
}

func (m *MockBlogService) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	if m.CreateFunc == nil {
		return &models.Blog{ID: "b1", Title: in.Title}, nil
	}
	return m.CreateFunc(ctx, in)
}

func (m *MockBlogService) Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, in)
}

func (m *MockBlogService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *MockBlogService) React(ctx context.Context, userID, blogID string, kind models.Reaction) (*models.Blog, error) {
	if m.ReactFunc == nil {
		return &models.Blog{ID: blogID}, nil
	}
	return m.ReactFunc(ctx, userID, blogID, kind)
}

func (m *MockBlogService) SetImage(ctx context.Context, id string, file services.Upload) (*models.Blog, error) {
	if m.SetImageFunc == nil {
		return &models.Blog{ID: id}, nil
	}
	return m.SetImageFunc(ctx, id, file)
}

// MockCouponService implements CouponService for testing
type MockCouponService struct {
	ListFunc   func(ctx context.Context) ([]*models.Coupon, error)
	GetFunc    func(ctx context.Context, id string) (*models.Coupon, error)
	CreateFunc func(ctx context.Context, in models.CouponInput) (*models.Coupon, error)
	UpdateFunc func(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockCouponService) List(ctx context.Context) ([]*models.Coupon, error) {
	if m.ListFunc == nil {
		return []*models.Coupon{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *MockCouponService) Get(ctx context.Context, id string) (*models.Coupon, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockCouponService) Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error) {
	if m.CreateFunc == nil {
		return &models.Coupon{ID: "c1", Name: in.Name, Expiry: in.Expiry, Discount: in.Discount}, nil
	}
	return m.CreateFunc(ctx, in)
}

func (m *MockCouponService) Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, in)
}

func (m *MockCouponService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

// MockProductCategoryService keeps categories in memory keyed by slug, so
// uniqueness behaves like the store's constraint.
type MockProductCategoryService struct {
	bySlug map[string]*models.ProductCategory
}

func (m *MockProductCategoryService) List(ctx context.Context) ([]*models.ProductCategory, error) {
	out := make([]*models.ProductCategory, 0, len(m.bySlug))
	for _, c := range m.bySlug {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockProductCategoryService) GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	c, ok := m.bySlug[slug]
	if !ok {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (m *MockProductCategoryService) Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	if m.bySlug == nil {
		m.bySlug = make(map[string]*models.ProductCategory)
	}
	s := slug.Make(in.Name)
	if _, exists := m.bySlug[s]; exists {
		return nil, models.ErrConflict
	}
	c := &models.ProductCategory{
		ID:             fmt.Sprintf("cat-%d", len(m.bySlug)+1),
		Name:           in.Name,
		Slug:           s,
		ParentID:       in.ParentID,
		SubCategoryIDs: []string{},
		Status:         true,
	}
	m.bySlug[s] = c
	return c, nil
}

func (m *MockProductCategoryService) Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	return nil, models.ErrNotFound
}

func (m *MockProductCategoryService) Delete(ctx context.Context, id string) error {
	return models.ErrNotFound
}
