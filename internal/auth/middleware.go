package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

// UserContextKey holds the authenticated *models.User.
const UserContextKey contextKey = "user"

// UserFinder resolves the identity named by a session token.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Gate is a composable request guard.
type Gate func(next http.Handler) http.Handler

// Authenticate verifies the session cookie and attaches the caller to the
// request context. Rejected sessions have their cookie cleared so the
// client is forced to log in again.
func Authenticate(tm *TokenManager, users UserFinder, cookies CookieConfig, logger *slog.Logger) Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := GetSessionCookie(r)
			if token == "" {
				pkghttp.WriteUnauthorized(w, "not authorized, please login")
				return
			}

			reject := func(message string) {
				ClearSessionCookie(w, cookies)
				pkghttp.WriteUnauthorized(w, message)
			}

			claims, err := tm.VerifySessionToken(token)
			if err != nil {
				if errors.Is(err, models.ErrExpiredToken) {
					reject("session expired, please login again")
					return
				}
				reject("invalid session, please login again")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					reject("invalid session, please login again")
					return
				}
				logger.Error("failed to resolve session user",
					slog.String("user_id", claims.UserID),
					slog.Any("error", err))
				pkghttp.WriteInternalError(w, "internal server error")
				return
			}

			if user.PasswordChangedAt != nil && claims.IssuedBefore(*user.PasswordChangedAt) {
				reject("password changed, please login again")
				return
			}

			if user.IsBlocked {
				pkghttp.WriteForbidden(w, "account is blocked")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user.Public())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the identity attached by Authenticate, or nil.
func CurrentUser(r *http.Request) *models.User {
	return UserFromContext(r.Context())
}

func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser returns ctx carrying user, as Authenticate would attach it.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// RequireRole admits only callers holding role. It must run after
// Authenticate.
func RequireRole(role models.Role) Gate {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				pkghttp.WriteUnauthorized(w, "not authorized, please login")
				return
			}
			if !role.Valid() || user.Role != role {
				pkghttp.WriteForbidden(w, "you do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Capabilities composes gates so that gates[0] runs first.
func Capabilities(gates ...Gate) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(gates) - 1; i >= 0; i-- {
			next = gates[i](next)
		}
		return next
	}
}

// AdminOnly authenticates the caller and then requires the admin role.
func AdminOnly(authn Gate) func(next http.Handler) http.Handler {
	return Capabilities(authn, RequireRole(models.RoleAdmin))
}
