//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/handlers"
	middlewareCustom "github.com/BradenHooton/storefront/internal/middleware"
	"github.com/BradenHooton/storefront/internal/routes"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

// CapturingMailer records password reset messages for test assertions
type CapturingMailer struct {
	mu   sync.Mutex
	sent []services.PasswordResetMessage
}

func (m *CapturingMailer) SendPasswordResetEmail(ctx context.Context, msg services.PasswordResetMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Last returns the most recent message, or nil.
func (m *CapturingMailer) Last() *services.PasswordResetMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	msg := m.sent[len(m.sent)-1]
	return &msg
}

// memoryImageStore keeps uploaded objects in memory.
type memoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "https://cdn.test.local/" + key, nil
}

func (s *memoryImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server *httptest.Server
	DB     *database.DB
	Repos  Repositories
	Mailer *CapturingMailer
}

// NewTestServer initializes a complete HTTP server with real database, captured mail and in-memory images
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	repos := InitializeRepositories(db)
	mailer := &CapturingMailer{}
	images := &memoryImageStore{objects: map[string][]byte{}}
	auditLogger := pkglogger.NewAuditLogger(logger)

	tokenManager := auth.NewTokenManager("test-secret-32-characters-long-for-testing", time.Hour)
	cookies := auth.CookieConfig{SameSite: "strict", MaxAge: time.Hour}
	proxies := pkghttp.TrustedProxies{}

	authService := services.NewAuthService(repos.Users, tokenManager, mailer, logger, auditLogger, services.AuthOptions{
		ResetTTL:     10 * time.Minute,
		ResetURLBase: "http://localhost/api/v1/auth/user/reset-password",
	})
	userService := services.NewUserService(repos.Users, repos.Products, logger, auditLogger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	r.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:            handlers.NewAuthHandler(authService, cookies, proxies),
		Users:           handlers.NewUserHandler(userService, proxies),
		Products:        handlers.NewProductHandler(services.NewProductService(repos.Products, images, logger), userService),
		ProductCategory: handlers.NewProductCategoryHandler(services.NewProductCategoryService(repos.ProductCategories, logger)),
		BlogCategory:    handlers.NewBlogCategoryHandler(services.NewBlogCategoryService(repos.BlogCategories, logger)),
		Brands:          handlers.NewBrandHandler(services.NewBrandService(repos.Brands, logger)),
		Coupons:         handlers.NewCouponHandler(services.NewCouponService(repos.Coupons, logger)),
		Blogs:           handlers.NewBlogHandler(services.NewBlogService(repos.Blogs, images, logger)),
	}, auth.Authenticate(tokenManager, repos.Users, cookies, logger), proxies)
	r.Get("/health", handlers.Health(db))

	return &TestServer{
		Server: httptest.NewServer(r),
		DB:     db,
		Repos:  repos,
		Mailer: mailer,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// NewClient returns an HTTP client with its own cookie jar, i.e. one browser session.
func (ts *TestServer) NewClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar}
}

// Request makes a JSON request to the test server with client
func (ts *TestServer) Request(client *http.Client, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// GetErrorMessage extracts error message from error response
func GetErrorMessage(resp *http.Response) (string, error) {
	var errResp pkghttp.ErrorResponse
	if err := ParseJSONResponse(resp, &errResp); err != nil {
		return "", err
	}
	return errResp.Message, nil
}

// ResetSecretFromLink returns the last path segment of an emailed reset link.
func ResetSecretFromLink(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}
