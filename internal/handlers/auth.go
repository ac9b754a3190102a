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

// AuthService defines the interface for auth business logic
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password, ip string) (*services.Session, error)
	AdminLogin(ctx context.Context, email, password, ip string) (*services.Session, error)
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword, ip string) (*services.Session, error)
	ForgotPassword(ctx context.Context, email, ip string) error
	ResetPassword(ctx context.Context, secret, password, ip string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthService
	cookies auth.CookieConfig
	proxies pkghttp.TrustedProxies
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService, cookies auth.CookieConfig, proxies pkghttp.TrustedProxies) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		proxies: proxies,
	}
}

// Request DTOs

type RegisterRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Mobile    *string `json:"mobile"`
	Password  string  `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by the login endpoints.
type SessionResponse struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

// Register handles user registration
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "User registered successfully",
	})
}

// Login handles user login
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.Login)
}

// AdminLogin handles login to the admin area
// @Router /auth/admin [post]
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.AdminLogin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password, ip string) (*services.Session, error)) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := fn(r.Context(), req.Email, req.Password, pkghttp.ClientIP(r, h.proxies))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	auth.SetSessionCookie(w, session.Token, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{
		User:    session.User,
		Message: "Logged in successfully",
		Token:   session.Token,
	})
}

// Logout clears the session cookie
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// UpdatePassword changes the caller's password and reissues the session
// @Router /auth/user/password-update [post]
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}

	var req UpdatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.service.UpdatePassword(r.Context(), user.ID, req.OldPassword, req.Password, pkghttp.ClientIP(r, h.proxies))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	auth.SetSessionCookie(w, session.Token, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{
		User:    session.User,
		Message: "Password updated successfully",
		Token:   session.Token,
	})
}

// ForgotPassword emails a password reset link
// @Router /auth/user/forget-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email, pkghttp.ClientIP(r, h.proxies)); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Reset password link sent to your email",
	})
}

// ResetPassword sets a new password using the emailed reset token
// @Router /auth/user/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.ResetPassword(r.Context(), token, req.Password, pkghttp.ClientIP(r, h.proxies))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"message": "Password reset successfully",
	})
}
