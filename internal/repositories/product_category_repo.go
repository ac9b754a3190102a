package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
)

type ProductCategoryRepository struct {
	db database.Querier
}

func NewProductCategoryRepository(db *database.DB) *ProductCategoryRepository {
	return &ProductCategoryRepository{db: db.Pool}
}

// Sub-categories are derived from parent_id; there is no second copy of
// the linkage to keep in sync.
const productCategorySelect = `
	SELECT c.id, c.name, c.slug, c.parent_id, c.icon, c.photo, c.status, c.created_at, c.updated_at,
		ARRAY(SELECT s.id::text FROM product_categories s WHERE s.parent_id = c.id ORDER BY s.created_at, s.id)
	FROM product_categories c`

func scanProductCategory(scanner rowScanner) (*models.ProductCategory, error) {
	var c models.ProductCategory
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Icon, &c.Photo, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.SubCategoryIDs)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if c.SubCategoryIDs == nil {
		c.SubCategoryIDs = []string{}
	}
	return &c, nil
}

func (r *ProductCategoryRepository) Create(ctx context.Context, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO product_categories (name, slug, parent_id, icon, photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, in.Name, in.Slug, in.ParentID, in.Icon, in.Photo).Scan(&id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *ProductCategoryRepository) GetByID(ctx context.Context, id string) (*models.ProductCategory, error) {
	return scanProductCategory(r.db.QueryRow(ctx, productCategorySelect+` WHERE c.id = $1`, id))
}

func (r *ProductCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	return scanProductCategory(r.db.QueryRow(ctx, productCategorySelect+` WHERE c.slug = $1`, slug))
}

func (r *ProductCategoryRepository) List(ctx context.Context) ([]*models.ProductCategory, error) {
	rows, err := r.db.Query(ctx, productCategorySelect+` ORDER BY c.created_at DESC, c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.ProductCategory, 0)
	for rows.Next() {
		c, err := scanProductCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return categories, nil
}

func (r *ProductCategoryRepository) Update(ctx context.Context, id string, in models.ProductCategoryInput) (*models.ProductCategory, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE product_categories SET name = $1, slug = $2, parent_id = $3, icon = $4, photo = $5, updated_at = NOW()
		WHERE id = $6`, in.Name, in.Slug, in.ParentID, in.Icon, in.Photo, id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// IsDescendant reports whether candidate sits somewhere below ancestor.
func (r *ProductCategoryRepository) IsDescendant(ctx context.Context, ancestor, candidate string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx, `
		WITH RECURSIVE tree AS (
			SELECT id FROM product_categories WHERE parent_id = $1
			UNION
			SELECT c.id FROM product_categories c JOIN tree t ON c.parent_id = t.id
		)
		SELECT EXISTS (SELECT 1 FROM tree WHERE id = $2)`, ancestor, candidate).Scan(&found)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return found, nil
}

func (r *ProductCategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
