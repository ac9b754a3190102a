package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUser(ctx context.Context, actor *models.User, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, id string, in services.ProfileInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, id, ip string) error
	SetBlocked(ctx context.Context, actor *models.User, id string, blocked bool, ip string) (*models.User, error)
	Wishlist(ctx context.Context, userID string) ([]string, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
	proxies pkghttp.TrustedProxies
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, proxies pkghttp.TrustedProxies) *UserHandler {
	return &UserHandler{
		service: service,
		proxies: proxies,
	}
}

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Mobile    *string `json:"mobile"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female other"`
}

// ListUsers returns every account (admin only)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Me returns the authenticated caller
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// GetUser returns one account; callers may read their own, admins any
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), auth.CurrentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// UpdateUser replaces the profile of the caller, or of anyone for admins
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), auth.CurrentUser(r), chi.URLParam(r, "id"), services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		Gender:    req.Gender,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"message": "User updated successfully",
	})
}

// DeleteUser removes an account (admin only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteUser(r.Context(), auth.CurrentUser(r), chi.URLParam(r, "id"), pkghttp.ClientIP(r, h.proxies))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// BlockUser blocks an account (admin only)
func (h *UserHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

// UnblockUser unblocks an account (admin only)
func (h *UserHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *UserHandler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	user, err := h.service.SetBlocked(r.Context(), auth.CurrentUser(r), chi.URLParam(r, "id"), blocked, pkghttp.ClientIP(r, h.proxies))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "User unblocked successfully"
	if blocked {
		message = "User blocked successfully"
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"message": message,
	})
}

// Wishlist returns the caller's wishlist product ids
func (h *UserHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}

	ids, err := h.service.Wishlist(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"wishlist": ids})
}
