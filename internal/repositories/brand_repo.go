package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
)

type BrandRepository struct {
	db database.Querier
}

func NewBrandRepository(db *database.DB) *BrandRepository {
	return &BrandRepository{db: db.Pool}
}

const brandColumns = `id, name, slug, logo, status, created_at, updated_at`

func scanBrand(scanner rowScanner) (*models.Brand, error) {
	var b models.Brand
	if err := scanner.Scan(&b.ID, &b.Name, &b.Slug, &b.Logo, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &b, nil
}

func (r *BrandRepository) Create(ctx context.Context, name, slug string, logo *string) (*models.Brand, error) {
	return scanBrand(r.db.QueryRow(ctx,
		`INSERT INTO brands (name, slug, logo) VALUES ($1, $2, $3) RETURNING `+brandColumns, name, slug, logo))
}

func (r *BrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	return scanBrand(r.db.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
}

func (r *BrandRepository) List(ctx context.Context) ([]*models.Brand, error) {
	rows, err := r.db.Query(ctx, `SELECT `+brandColumns+` FROM brands ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	brands := make([]*models.Brand, 0)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return brands, nil
}

func (r *BrandRepository) Update(ctx context.Context, id, name, slug string, logo *string) (*models.Brand, error) {
	return scanBrand(r.db.QueryRow(ctx, `
		UPDATE brands SET name = $1, slug = $2, logo = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+brandColumns, name, slug, logo, id))
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
