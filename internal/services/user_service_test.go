package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/BradenHooton/storefront/internal/models"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(repo UserRepository, products ProductLookup) *UserService {
	logger := slog.Default()
	return NewUserService(repo, products, logger, pkglogger.NewAuditLogger(logger))
}

func TestUserService_GetUser_Self(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	result, err := svc.GetUser(context.Background(), user, "user123")

	require.NoError(t, err)
	assert.Equal(t, "user123", result.ID)
	assert.Empty(t, result.PasswordHash)
}

func TestUserService_GetUser_OtherUserForbidden(t *testing.T) {
	actor := NewTestUser("user1", "one@example.com", "One", "User")
	svc := newTestUserService(&MockUserRepository{}, &MockProductRepository{})

	_, err := svc.GetUser(context.Background(), actor, "user2")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUserService_GetUser_AdminReadsAnyone(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	target := NewTestUser("user2", "two@example.com", "Two", "User")
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return target, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	result, err := svc.GetUser(context.Background(), admin, "user2")

	require.NoError(t, err)
	assert.Equal(t, "user2", result.ID)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	svc := newTestUserService(&MockUserRepository{}, &MockProductRepository{})

	result, err := svc.GetUser(context.Background(), admin, "missing")

	assert.Nil(t, result)
	assert.Equal(t, models.ErrNotFound, err)
}

func TestUserService_GetUser_DatabaseError(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	_, err := svc.GetUser(context.Background(), admin, "user123")

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestUserService_ListUsers_Empty(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{}, &MockProductRepository{})

	users, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserService_ListUsers_StripsCredentials(t *testing.T) {
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				NewTestUser("user1", "one@example.com", "One", "User"),
				NewTestUser("user2", "two@example.com", "Two", "User"),
			}, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	users, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestUserService_UpdateProfile_RecomputesSlug(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	var got models.UserProfile
	repo := &MockUserRepository{
		UpdateProfileFunc: func(ctx context.Context, id string, p models.UserProfile) (*models.User, error) {
			got = p
			u := *user
			u.FirstName, u.LastName, u.Slug = p.FirstName, p.LastName, p.Slug
			return &u, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	result, err := svc.UpdateProfile(context.Background(), user, "user123", ProfileInput{
		FirstName: "Mary Ann",
		LastName:  "O'Neil",
	})

	require.NoError(t, err)
	assert.Equal(t, "mary-ann-oneil", got.Slug)
	assert.Equal(t, "mary-ann-oneil", result.Slug)
}

func TestUserService_UpdateProfile_RequiresNames(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "Test", "User")
	svc := newTestUserService(&MockUserRepository{}, &MockProductRepository{})

	_, err := svc.UpdateProfile(context.Background(), user, "user123", ProfileInput{FirstName: "Only"})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	repo := &MockUserRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	err := svc.DeleteUser(context.Background(), admin, "missing", "")

	assert.Equal(t, models.ErrNotFound, err)
}

func TestUserService_SetBlocked_Success(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	target := NewTestUser("user2", "two@example.com", "Two", "User")
	repo := &MockUserRepository{
		SetBlockedFunc: func(ctx context.Context, id string, blocked bool) (*models.User, error) {
			u := *target
			u.IsBlocked = blocked
			return &u, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	blocked, err := svc.SetBlocked(context.Background(), admin, "user2", true, "")
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := svc.SetBlocked(context.Background(), admin, "user2", false, "")
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
}

func TestUserService_SetBlocked_RejectsSelf(t *testing.T) {
	admin := NewTestAdmin("admin1", "admin@example.com")
	svc := newTestUserService(&MockUserRepository{}, &MockProductRepository{})

	_, err := svc.SetBlocked(context.Background(), admin, "admin1", true, "")

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_ToggleWishlist_Success(t *testing.T) {
	var list []string
	repo := &MockUserRepository{
		ToggleWishlistFunc: func(ctx context.Context, userID, productID string) (bool, error) {
			for i, id := range list {
				if id == productID {
					list = append(list[:i], list[i+1:]...)
					return false, nil
				}
			}
			list = append(list, productID)
			return true, nil
		},
		WishlistFunc: func(ctx context.Context, userID string) ([]string, error) {
			return append([]string{}, list...), nil
		},
	}
	products := &MockProductRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Product, error) {
			return &models.Product{ID: id}, nil
		},
	}
	svc := newTestUserService(repo, products)

	ids, added, err := svc.ToggleWishlist(context.Background(), "user1", "prod1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"prod1"}, ids)

	ids, added, err = svc.ToggleWishlist(context.Background(), "user1", "prod1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, ids)
}

func TestUserService_ToggleWishlist_UnknownProduct(t *testing.T) {
	toggled := false
	repo := &MockUserRepository{
		ToggleWishlistFunc: func(ctx context.Context, userID, productID string) (bool, error) {
			toggled = true
			return true, nil
		},
	}
	svc := newTestUserService(repo, &MockProductRepository{})

	_, _, err := svc.ToggleWishlist(context.Background(), "user1", "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, toggled)
}
