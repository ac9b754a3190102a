package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func newTestAuthService(repo UserRepository, mailer EmailService) *AuthService {
	logger := slog.Default()
	return NewAuthService(
		repo,
		auth.NewTokenManager(testSecret, 7*24*time.Hour),
		mailer,
		logger,
		pkglogger.NewAuditLogger(logger),
		AuthOptions{
			ResetTTL:     10 * time.Minute,
			ResetURLBase: "http://localhost:8080/api/v1/auth/user/reset-password/",
		},
	)
}

// ============================================================================
// Register
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	var stored *models.User
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			stored = user
			created := *user
			created.ID = "user123"
			return &created, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: " John ",
		LastName:  "Doe",
		Email:     "John@Example.COM",
		Password:  TestPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, "user123", user.ID)
	assert.Equal(t, "john-doe", user.Slug)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "returned user must not carry the hash")

	require.NotNil(t, stored)
	assert.NotEqual(t, TestPassword, stored.PasswordHash)
	assert.NoError(t, pkgauth.ComparePassword(stored.PasswordHash, TestPassword))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John", LastName: "Doe", Email: "john@example.com", Password: TestPassword,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAuthService_Register_InvalidPassword(t *testing.T) {
	created := false
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = true
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John", LastName: "Doe", Email: "john@example.com", Password: "short",
	})

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.False(t, created)
}

func TestAuthService_Register_MissingName(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{}, &MockEmailService{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John", Email: "john@example.com", Password: TestPassword,
	})

	assert.ErrorIs(t, err, models.ErrValidation)
}

// ============================================================================
// Login
// ============================================================================

func TestAuthService_Login_Success(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "user@example.com", email)
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	session, err := svc.Login(context.Background(), "  USER@example.com", TestPassword, "10.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Empty(t, session.User.PasswordHash)

	claims, err := svc.tm.VerifySessionToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), session.ExpiresAt, time.Minute)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{}, &MockEmailService{})

	session, err := svc.Login(context.Background(), "nobody@example.com", TestPassword, "")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.Login(context.Background(), "user@example.com", "WrongPassword999!", "")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_BlockedUser(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	user.IsBlocked = true
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.Login(context.Background(), "user@example.com", TestPassword, "")

	assert.ErrorIs(t, err, models.ErrAccountBlocked)
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.Login(context.Background(), "user@example.com", TestPassword, "")

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestAuthService_Login_FailureFloor(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{}, &MockEmailService{})
	svc.opts.FailureFloor = auth.FailureFloor{Min: 50 * time.Millisecond}

	start := time.Now()
	_, err := svc.Login(context.Background(), "nobody@example.com", TestPassword, "")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestAuthService_AdminLogin_NonAdmin(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	session, err := svc.AdminLogin(context.Background(), "user@example.com", TestPassword, "")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestAuthService_AdminLogin_Success(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return admin, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	session, err := svc.AdminLogin(context.Background(), "admin@example.com", TestPassword, "")

	require.NoError(t, err)
	assert.Equal(t, "admin1", session.User.ID)
	assert.True(t, session.User.IsAdmin())
}

// ============================================================================
// Password update
// ============================================================================

func TestAuthService_UpdatePassword_WrongCurrentPassword(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	updated := false
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, hash string, now time.Time) (*models.User, error) {
			updated = true
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.UpdatePassword(context.Background(), "user123", "NotMyPassword1!", "BrandNewPassword42", "")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.False(t, updated)
}

func TestAuthService_UpdatePassword_Success(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var newHash string
	var stampedAt time.Time
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, hash string, now time.Time) (*models.User, error) {
			newHash, stampedAt = hash, now
			changed := *user
			changed.PasswordHash = hash
			changed.PasswordChangedAt = &now
			return &changed, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})
	svc.now = func() time.Time { return fixed }

	session, err := svc.UpdatePassword(context.Background(), "user123", TestPassword, "BrandNewPassword42", "")

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, fixed, stampedAt)
	assert.NoError(t, pkgauth.ComparePassword(newHash, "BrandNewPassword42"))
}

func TestAuthService_UpdatePassword_WeakNewPassword(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.UpdatePassword(context.Background(), "user123", TestPassword, "password", "")

	assert.ErrorIs(t, err, models.ErrValidation)
}

// ============================================================================
// Forgot / reset password
// ============================================================================

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	mailer := &MockEmailService{}
	svc := newTestAuthService(&MockUserRepository{}, mailer)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com", "")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, mailer.Sent)
}

func TestAuthService_ForgotPassword_Success(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var storedHash string
	var storedExpiry time.Time
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		SetResetTokenFunc: func(ctx context.Context, id, hash string, expiresAt time.Time) error {
			assert.Equal(t, "user123", id)
			storedHash, storedExpiry = hash, expiresAt
			return nil
		},
	}
	mailer := &MockEmailService{}
	svc := newTestAuthService(repo, mailer)
	svc.now = func() time.Time { return fixed }

	err := svc.ForgotPassword(context.Background(), "user@example.com", "")

	require.NoError(t, err)
	require.Len(t, mailer.Sent, 1)
	msg := mailer.Sent[0]
	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "Test User", msg.Name)
	assert.Equal(t, fixed.Add(10*time.Minute), storedExpiry)
	assert.Equal(t, storedExpiry, msg.ExpiresAt)

	prefix := "http://localhost:8080/api/v1/auth/user/reset-password/"
	require.True(t, strings.HasPrefix(msg.Link, prefix))
	secret := strings.TrimPrefix(msg.Link, prefix)
	assert.Len(t, secret, 64)
	assert.Equal(t, auth.HashResetSecret(secret), storedHash)
	assert.NotEqual(t, secret, storedHash, "only the digest may be stored")
}

func TestAuthService_ForgotPassword_MailFailure(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{Err: errors.New("ses down")})

	err := svc.ForgotPassword(context.Background(), "user@example.com", "")

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	var gotHash, gotPasswordHash string
	repo := &MockUserRepository{
		ResetPasswordFunc: func(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
			gotHash, gotPasswordHash = tokenHash, passwordHash
			u := NewTestUser("user123", "user@example.com", "Test", "User")
			u.PasswordHash = passwordHash
			u.Verified = true
			return u, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	user, err := svc.ResetPassword(context.Background(), "abc123", "BrandNewPassword42", "")

	require.NoError(t, err)
	assert.Equal(t, auth.HashResetSecret("abc123"), gotHash)
	assert.NoError(t, pkgauth.ComparePassword(gotPasswordHash, "BrandNewPassword42"))
	assert.True(t, user.Verified)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{}, &MockEmailService{})

	user, err := svc.ResetPassword(context.Background(), "abc123", "BrandNewPassword42", "")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestAuthService_ResetPassword_EmptyToken(t *testing.T) {
	called := false
	repo := &MockUserRepository{
		ResetPasswordFunc: func(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
			called = true
			return nil, models.ErrTokenExpired
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	_, err := svc.ResetPassword(context.Background(), "  ", "BrandNewPassword42", "")

	assert.ErrorIs(t, err, models.ErrTokenExpired)
	assert.False(t, called)
}

// ============================================================================
// Admin bootstrap
// ============================================================================

func TestAuthService_EnsureAdmin_CreatesMissingAdmin(t *testing.T) {
	var created *models.User
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = user
			u := *user
			u.ID = "admin1"
			return &u, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	admin, err := svc.EnsureAdmin(context.Background(), "Admin@Example.com", "BootstrapPassword9")

	require.NoError(t, err)
	assert.Equal(t, "admin1", admin.ID)
	require.NotNil(t, created)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.Equal(t, "admin@example.com", created.Email)
}

func TestAuthService_EnsureAdmin_PromotesExistingUser(t *testing.T) {
	user := NewTestUser("user123", "admin@example.com", "Test", "User")
	var promotedTo models.Role
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		SetRoleFunc: func(ctx context.Context, id string, role models.Role) (*models.User, error) {
			promotedTo = role
			u := *user
			u.Role = role
			return &u, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	admin, err := svc.EnsureAdmin(context.Background(), "admin@example.com", "BootstrapPassword9")

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promotedTo)
	assert.True(t, admin.IsAdmin())
}

func TestAuthService_EnsureAdmin_ExistingAdminUnchanged(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return admin, nil
		},
		SetRoleFunc: func(ctx context.Context, id string, role models.Role) (*models.User, error) {
			t.Fatal("SetRole must not be called for an existing admin")
			return nil, nil
		},
	}
	svc := newTestAuthService(repo, &MockEmailService{})

	got, err := svc.EnsureAdmin(context.Background(), "admin@example.com", "BootstrapPassword9")

	require.NoError(t, err)
	assert.Equal(t, "admin1", got.ID)
}
