package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 3}, pkghttp.TrustedProxies{})(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.10:1000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req.RemoteAddr = "203.0.113.10:1000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"status":429`)

	// A different client has its own budget
	req = httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req.RemoteAddr = "203.0.113.11:1000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitByIP_IgnoresSpoofedForwardedFor(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1}, pkghttp.TrustedProxies{})(okHandler())

	for i, spoof := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.20:1000"
		req.Header.Set("X-Forwarded-For", spoof)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}
}

func TestRateLimitByUser_KeysOnUser(t *testing.T) {
	handler := RateLimitByUser(RateLimitConfig{RequestsPerMinute: 1}, pkghttp.TrustedProxies{})(okHandler())

	send := func(user *models.User) int {
		req := httptest.NewRequest("PUT", "/api/v1/product/rating", nil)
		req.RemoteAddr = "203.0.113.30:1000"
		if user != nil {
			req = req.WithContext(auth.WithUser(req.Context(), user))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	alice := &models.User{ID: "alice"}
	bob := &models.User{ID: "bob"}

	assert.Equal(t, http.StatusOK, send(alice))
	assert.Equal(t, http.StatusTooManyRequests, send(alice))
	// Same address, different user
	assert.Equal(t, http.StatusOK, send(bob))
	// Anonymous falls back to the address
	assert.Equal(t, http.StatusOK, send(nil))
	assert.Equal(t, http.StatusTooManyRequests, send(nil))
}
