package middleware

import (
	"net/http"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAuthRateLimit returns default rate limit config for auth endpoints (5 requests per minute)
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 5,
	}
}

// DefaultWriteRateLimit bounds authenticated mutations such as ratings,
// reactions and wishlist toggles.
func DefaultWriteRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP.
// Forwarding headers are honoured only from trusted proxies.
func RateLimitByIP(config RateLimitConfig, proxies pkghttp.TrustedProxies) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + pkghttp.ClientIP(r, proxies), nil
		}),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// RateLimitByUser keys on the authenticated user and falls back to the
// client IP for anonymous requests. It must run after the session gate.
func RateLimitByUser(config RateLimitConfig, proxies pkghttp.TrustedProxies) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if user := auth.CurrentUser(r); user != nil {
				return "user:" + user.ID, nil
			}
			return "ip:" + pkghttp.ClientIP(r, proxies), nil
		}),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Too many requests, please try again later")
}
