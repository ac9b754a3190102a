package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id string, p models.UserProfile) (*models.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
	ToggleWishlist(ctx context.Context, userID, productID string) (bool, error)
	Wishlist(ctx context.Context, userID string) ([]string, error)
}

// ProductLookup resolves a product by id.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// ProfileInput holds the user-editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Mobile    *string
	Gender    *string
}

// UserService handles user business logic
type UserService struct {
	repo        UserRepository
	products    ProductLookup
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, products ProductLookup, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		products:    products,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// canAccess reports whether actor may read or edit the account id.
func canAccess(actor *models.User, id string) bool {
	return actor != nil && (actor.ID == id || actor.IsAdmin())
}

// GetUser retrieves a user by ID on behalf of actor
func (s *UserService) GetUser(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	if !canAccess(actor, id) {
		return nil, models.ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		return nil, storeError(s.logger, "failed to get user", err, slog.String("user_id", id))
	}

	return user.Public(), nil
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, "failed to list users", err)
	}

	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateProfile replaces the profile fields and recomputes the slug.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, id string, in ProfileInput) (*models.User, error) {
	if !canAccess(actor, id) {
		return nil, models.ErrForbidden
	}

	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, models.NewValidationError("firstName and lastName are required")
	}

	user, err := s.repo.UpdateProfile(ctx, id, models.UserProfile{
		FirstName: first,
		LastName:  last,
		Slug:      slug.Join(first, last),
		Mobile:    in.Mobile,
		Gender:    in.Gender,
	})
	if err != nil {
		return nil, storeError(s.logger, "failed to update user", err, slog.String("user_id", id))
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return user.Public(), nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id, ip string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		return storeError(s.logger, "failed to delete user", err, slog.String("user_id", id))
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction(ctx, pkglogger.EventUserDeleted, actorID(actor), id, ip)
	return nil
}

// SetBlocked blocks or unblocks an account. Admins cannot block themselves.
func (s *UserService) SetBlocked(ctx context.Context, actor *models.User, id string, blocked bool, ip string) (*models.User, error) {
	if blocked && actor != nil && actor.ID == id {
		return nil, models.NewValidationError("you cannot block your own account")
	}

	user, err := s.repo.SetBlocked(ctx, id, blocked)
	if err != nil {
		return nil, storeError(s.logger, "failed to change block state", err, slog.String("user_id", id))
	}

	event := pkglogger.EventUserUnblocked
	if blocked {
		event = pkglogger.EventUserBlocked
	}
	s.logger.Info("user block state changed", slog.String("user_id", id), slog.Bool("blocked", blocked))
	s.auditLogger.LogAccountAction(ctx, event, actorID(actor), id, ip)
	return user.Public(), nil
}

// Wishlist returns the product ids on the user's wishlist.
func (s *UserService) Wishlist(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.Wishlist(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, "failed to load wishlist", err, slog.String("user_id", userID))
	}
	return ids, nil
}

// ToggleWishlist adds the product to the wishlist, or removes it when it is
// already there. It returns the resulting wishlist and whether the product
// was added.
func (s *UserService) ToggleWishlist(ctx context.Context, userID, productID string) ([]string, bool, error) {
	if productID == "" {
		return nil, false, models.NewValidationError("productId is required")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, false, storeError(s.logger, "failed to load product", err, slog.String("product_id", productID))
	}

	added, err := s.repo.ToggleWishlist(ctx, userID, productID)
	if err != nil {
		return nil, false, storeError(s.logger, "failed to toggle wishlist", err,
			slog.String("user_id", userID), slog.String("product_id", productID))
	}

	ids, err := s.Wishlist(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return ids, added, nil
}

func actorID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
