package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
)

type CouponRepository struct {
	db database.Querier
}

func NewCouponRepository(db *database.DB) *CouponRepository {
	return &CouponRepository{db: db.Pool}
}

const couponColumns = `id, name, expiry, discount, status, created_at, updated_at`

func scanCoupon(scanner rowScanner) (*models.Coupon, error) {
	var c models.Coupon
	if err := scanner.Scan(&c.ID, &c.Name, &c.Expiry, &c.Discount, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

func (r *CouponRepository) Create(ctx context.Context, in models.CouponInput) (*models.Coupon, error) {
	return scanCoupon(r.db.QueryRow(ctx,
		`INSERT INTO coupons (name, expiry, discount) VALUES ($1, $2, $3) RETURNING `+couponColumns,
		in.Name, in.Expiry, in.Discount))
}

func (r *CouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	return scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
}

func (r *CouponRepository) List(ctx context.Context) ([]*models.Coupon, error) {
	rows, err := r.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY expiry DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]*models.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return coupons, nil
}

func (r *CouponRepository) Update(ctx context.Context, id string, in models.CouponInput) (*models.Coupon, error) {
	return scanCoupon(r.db.QueryRow(ctx, `
		UPDATE coupons SET name = $1, expiry = $2, discount = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+couponColumns, in.Name, in.Expiry, in.Discount, id))
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
