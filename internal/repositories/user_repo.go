package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db database.Querier
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, first_name, last_name, slug, email, mobile, gender, photo, password_hash,
	role, is_blocked, verified, password_changed_at, reset_token_hash, reset_expires_at,
	created_at, updated_at`

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Slug, &user.Email,
		&user.Mobile, &user.Gender, &user.Photo, &user.PasswordHash,
		&user.Role, &user.IsBlocked, &user.Verified, &user.PasswordChangedAt,
		&user.ResetTokenHash, &user.ResetExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query := `
		INSERT INTO users (first_name, last_name, slug, email, mobile, gender, photo, password_hash, role, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Slug, user.Email,
		user.Mobile, user.Gender, user.Photo, user.PasswordHash,
		user.Role, user.Verified,
	))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return scanUserRows(rows)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p models.UserProfile) (*models.User, error) {
	query := `
		UPDATE users SET first_name = $1, last_name = $2, slug = $3, mobile = $4, gender = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query, p.FirstName, p.LastName, p.Slug, p.Mobile, p.Gender, id))
}

func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) (*models.User, error) {
	query := `
		UPDATE users SET is_blocked = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query, blocked, id))
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	query := `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query, role, id))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the hash and stamps password_changed_at, which
// invalidates every session issued before now. Pending reset credentials
// are discarded.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) (*models.User, error) {
	query := `
		UPDATE users SET password_hash = $1, password_changed_at = $2,
			reset_token_hash = NULL, reset_expires_at = NULL, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query, passwordHash, now, id))
}

// SetResetToken stores the hash and expiry of a freshly issued reset
// secret, replacing any earlier one.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = $1, reset_expires_at = $2, updated_at = NOW() WHERE id = $3`,
		tokenHash, expiresAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ResetPassword consumes a reset credential. The match on hash and expiry
// and the password write happen in one statement, so a secret can be
// redeemed at most once. A miss yields models.ErrTokenExpired.
func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	query := `
		UPDATE users SET password_hash = $1, password_changed_at = $3, verified = TRUE,
			reset_token_hash = NULL, reset_expires_at = NULL, updated_at = $3
		WHERE reset_token_hash = $2 AND reset_expires_at > $3
		RETURNING ` + userColumns

	user, err := scanUserRow(r.db.QueryRow(ctx, query, passwordHash, tokenHash, now))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrTokenExpired
		}
		return nil, err
	}
	return user, nil
}

// ClearExpiredResetTokens nulls reset credentials whose window has passed.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_expires_at = NULL
		 WHERE reset_expires_at IS NOT NULL AND reset_expires_at <= $1`, now)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

// ToggleWishlist adds productID to the user's wishlist, or removes it if
// already present. It reports whether the product is now on the list.
func (r *UserRepository) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM user_wishlist WHERE user_id = $1 AND product_id = $2 RETURNING 1
		)
		INSERT INTO user_wishlist (user_id, product_id)
		SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
		ON CONFLICT DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, userID, productID)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return result.RowsAffected() == 1, nil
}

// Wishlist returns the product ids on the user's wishlist, oldest first.
func (r *UserRepository) Wishlist(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM user_wishlist WHERE user_id = $1 ORDER BY created_at, product_id`, userID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
