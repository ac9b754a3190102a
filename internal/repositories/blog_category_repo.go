package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
)

type BlogCategoryRepository struct {
	db database.Querier
}

func NewBlogCategoryRepository(db *database.DB) *BlogCategoryRepository {
	return &BlogCategoryRepository{db: db.Pool}
}

const blogCategoryColumns = `id, name, slug, status, created_at, updated_at`

func scanBlogCategory(scanner rowScanner) (*models.BlogCategory, error) {
	var c models.BlogCategory
	if err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

func (r *BlogCategoryRepository) Create(ctx context.Context, name, slug string) (*models.BlogCategory, error) {
	return scanBlogCategory(r.db.QueryRow(ctx,
		`INSERT INTO blog_categories (name, slug) VALUES ($1, $2) RETURNING `+blogCategoryColumns, name, slug))
}

func (r *BlogCategoryRepository) GetByID(ctx context.Context, id string) (*models.BlogCategory, error) {
	return scanBlogCategory(r.db.QueryRow(ctx,
		`SELECT `+blogCategoryColumns+` FROM blog_categories WHERE id = $1`, id))
}

func (r *BlogCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogCategory, error) {
	return scanBlogCategory(r.db.QueryRow(ctx,
		`SELECT `+blogCategoryColumns+` FROM blog_categories WHERE slug = $1`, slug))
}

func (r *BlogCategoryRepository) List(ctx context.Context) ([]*models.BlogCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT `+blogCategoryColumns+` FROM blog_categories ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.BlogCategory, 0)
	for rows.Next() {
		c, err := scanBlogCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return categories, nil
}

func (r *BlogCategoryRepository) Update(ctx context.Context, id, name, slug string) (*models.BlogCategory, error) {
	return scanBlogCategory(r.db.QueryRow(ctx, `
		UPDATE blog_categories SET name = $1, slug = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+blogCategoryColumns, name, slug, id))
}

func (r *BlogCategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
