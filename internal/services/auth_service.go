package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// AuthOptions tunes the password-reset flow and login timing.
type AuthOptions struct {
	ResetTTL     time.Duration
	ResetURLBase string
	FailureFloor auth.FailureFloor
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	mailer      EmailService
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	opts        AuthOptions
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, tm *auth.TokenManager, mailer EmailService, logger *slog.Logger, auditLogger *pkglogger.AuditLogger, opts AuthOptions) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		mailer:      mailer,
		logger:      logger,
		auditLogger: auditLogger,
		opts:        opts,
		now:         time.Now,
	}
}

// RegisterInput is the payload of a self-service signup.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    *string
	Password  string
}

// Session is an issued session credential and the user it belongs to.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account with the user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if email == "" || first == "" || last == "" {
		return nil, models.NewValidationError("firstName, lastName and email are required")
	}
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError("%s", err.Error())
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		FirstName:    first,
		LastName:     last,
		Slug:         slug.Join(first, last),
		Email:        email,
		Mobile:       in.Mobile,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("registration rejected: user already exists")
			return nil, models.ErrConflict
		}
		return nil, storeError(s.logger, "failed to create user", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return user.Public(), nil
}

// Login authenticates a user and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*Session, error) {
	return s.login(ctx, false, email, password, ip)
}

// AdminLogin is Login restricted to accounts holding the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, email, password, ip string) (*Session, error) {
	return s.login(ctx, true, email, password, ip)
}

func (s *AuthService) login(ctx context.Context, admin bool, email, password, ip string) (*Session, error) {
	start := time.Now()
	email = normalizeEmail(email)

	fail := func(userID, reason string, err error) (*Session, error) {
		s.auditLogger.LogLogin(ctx, admin, email, userID, ip, false, reason)
		if errors.Is(err, models.ErrUnauthorized) {
			s.opts.FailureFloor.Pad(ctx, start)
		}
		return nil, err
	}

	if email == "" || password == "" {
		return fail("", "missing_credentials", models.ErrUnauthorized)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			return fail("", "invalid_credentials", models.ErrUnauthorized)
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials")
		return fail(user.ID, "invalid_credentials", models.ErrUnauthorized)
	}

	if admin && !user.IsAdmin() {
		s.logger.Info("admin login rejected: not an admin", slog.String("user_id", user.ID))
		return fail(user.ID, "not_admin", models.ErrForbidden)
	}

	if user.IsBlocked {
		s.logger.Info("login blocked due to account state", slog.String("user_id", user.ID))
		return fail(user.ID, "account_blocked", models.ErrAccountBlocked)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID), slog.Bool("admin", admin))
	s.auditLogger.LogLogin(ctx, admin, email, user.ID, ip, true, "")
	return session, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tm.IssueSessionToken(user.ID)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return &Session{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

// UpdatePassword changes the caller's password after checking the current
// one. Sessions issued before the change stop working, so a fresh session
// is returned.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword, ip string) (*Session, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, storeError(s.logger, "failed to get user", err, slog.String("user_id", userID))
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		s.logger.Info("password update rejected: wrong current password", slog.String("user_id", userID))
		s.auditLogger.Log(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventPasswordChange,
			UserID:        userID,
			IPAddress:     ip,
			FailureReason: "invalid_credentials",
		})
		return nil, models.ErrUnauthorized
	}

	hash, err := s.hashNew(newPassword)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdatePassword(ctx, userID, hash, s.now())
	if err != nil {
		return nil, storeError(s.logger, "failed to update password", err, slog.String("user_id", userID))
	}

	s.logger.Info("password updated", slog.String("user_id", userID))
	s.auditLogger.Log(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventPasswordChange,
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
	})
	return s.issue(updated)
}

func (s *AuthService) hashNew(password string) (string, error) {
	if err := pkgauth.ValidatePassword(password); err != nil {
		return "", models.NewValidationError("%s", err.Error())
	}
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return hash, nil
}

// ForgotPassword stores a fresh reset credential for the account and mails
// the raw secret to its owner. Any earlier credential is replaced.
func (s *AuthService) ForgotPassword(ctx context.Context, email, ip string) error {
	email = normalizeEmail(email)
	if email == "" {
		return models.NewValidationError("email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			s.auditLogger.Log(ctx, pkglogger.AuditEvent{
				EventType:     pkglogger.EventPasswordResetRequest,
				Email:         email,
				IPAddress:     ip,
				FailureReason: "unknown_email",
			})
			return models.ErrNotFound
		}
		return storeError(s.logger, "failed to get user by email", err)
	}

	token, err := auth.NewResetToken(s.now(), s.opts.ResetTTL)
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.SetResetToken(ctx, user.ID, token.Hash, token.ExpiresAt); err != nil {
		return storeError(s.logger, "failed to store reset token", err, slog.String("user_id", user.ID))
	}

	err = s.mailer.SendPasswordResetEmail(ctx, PasswordResetMessage{
		To:        user.Email,
		Name:      user.DisplayName(),
		Link:      strings.TrimSuffix(s.opts.ResetURLBase, "/") + "/" + token.Secret,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		s.logger.Error("failed to send password reset email", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset requested", slog.String("user_id", user.ID))
	s.auditLogger.Log(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventPasswordResetRequest,
		UserID:    user.ID,
		Email:     email,
		IPAddress: ip,
		Success:   true,
	})
	return nil
}

// ResetPassword sets a new password for the holder of a live reset secret.
// The secret is consumed by the same write, so it works once.
func (s *AuthService) ResetPassword(ctx context.Context, secret, password, ip string) (*models.User, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, models.ErrTokenExpired
	}

	hash, err := s.hashNew(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.ResetPassword(ctx, auth.HashResetSecret(secret), hash, s.now())
	if err != nil {
		if errors.Is(err, models.ErrTokenExpired) {
			s.logger.Info("password reset rejected: token invalid or expired")
			s.auditLogger.Log(ctx, pkglogger.AuditEvent{
				EventType:     pkglogger.EventPasswordReset,
				IPAddress:     ip,
				FailureReason: "token_expired",
			})
			return nil, models.ErrTokenExpired
		}
		return nil, storeError(s.logger, "failed to reset password", err)
	}

	s.logger.Info("password reset completed", slog.String("user_id", user.ID))
	s.auditLogger.Log(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventPasswordReset,
		UserID:    user.ID,
		IPAddress: ip,
		Success:   true,
	})
	return user.Public(), nil
}

// EnsureAdmin makes sure an admin account exists for email, creating it
// with password when missing and promoting it when it holds another role.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user.Public(), nil
		}
		promoted, err := s.repo.SetRole(ctx, user.ID, models.RoleAdmin)
		if err != nil {
			return nil, storeError(s.logger, "failed to promote admin", err, slog.String("user_id", user.ID))
		}
		s.logger.Info("existing user promoted to admin", slog.String("user_id", user.ID))
		return promoted.Public(), nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, storeError(s.logger, "failed to get user by email", err)
	}

	hash, err := s.hashNew(password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Slug:         slug.Join("admin", "user"),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Verified:     true,
	})
	if err != nil {
		return nil, storeError(s.logger, "failed to create admin user", err)
	}

	s.logger.Info("admin user created", slog.String("user_id", created.ID))
	return created.Public(), nil
}
