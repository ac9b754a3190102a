package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
)

type BlogRepository struct {
	db database.Querier
}

func NewBlogRepository(db *database.DB) *BlogRepository {
	return &BlogRepository{db: db.Pool}
}

const blogColumns = `b.id, b.title, b.slug, b.description, b.category_id, b.author, b.image, b.num_views, b.status,
	b.created_at, b.updated_at,
	ARRAY(SELECT r.user_id::text FROM blog_reactions r WHERE r.blog_id = b.id AND r.kind = 'like' ORDER BY r.created_at, r.user_id),
	ARRAY(SELECT r.user_id::text FROM blog_reactions r WHERE r.blog_id = b.id AND r.kind = 'dislike' ORDER BY r.created_at, r.user_id)`

func scanBlog(scanner rowScanner) (*models.Blog, error) {
	var b models.Blog
	err := scanner.Scan(&b.ID, &b.Title, &b.Slug, &b.Description, &b.CategoryID, &b.Author, &b.Image,
		&b.NumViews, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.Likes, &b.Dislikes)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}
	if b.Dislikes == nil {
		b.Dislikes = []string{}
	}
	return &b, nil
}

func (r *BlogRepository) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO blogs (title, slug, description, category_id, author)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, in.Title, in.Slug, in.Description, in.CategoryID, in.Author).Scan(&id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs b WHERE b.id = $1`, id))
}

// ViewBySlug increments the view counter and returns the updated post.
func (r *BlogRepository) ViewBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `
		UPDATE blogs b SET num_views = b.num_views + 1
		WHERE b.slug = $1
		RETURNING `+blogColumns, slug))
}

func (r *BlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	rows, err := r.db.Query(ctx, `SELECT `+blogColumns+` FROM blogs b ORDER BY b.created_at DESC, b.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]*models.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return blogs, nil
}

func (r *BlogRepository) Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `
		UPDATE blogs b SET title = $1, slug = $2, description = $3, category_id = $4, author = $5, updated_at = NOW()
		WHERE b.id = $6
		RETURNING `+blogColumns, in.Title, in.Slug, in.Description, in.CategoryID, in.Author, id))
}

func (r *BlogRepository) SetImage(ctx context.Context, id, url string) (*models.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `
		UPDATE blogs b SET image = $1, updated_at = NOW()
		WHERE b.id = $2
		RETURNING `+blogColumns, url, id))
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ToggleReaction applies one like or dislike request from userID:
// repeating the current reaction withdraws it, the opposite reaction
// replaces it, and no reaction records a new one. The (blog, user)
// primary key keeps likes and dislikes mutually exclusive.
func (r *BlogRepository) ToggleReaction(ctx context.Context, blogID, userID string, kind models.Reaction) error {
	_, err := r.db.Exec(ctx, `
		WITH withdrawn AS (
			DELETE FROM blog_reactions
			WHERE blog_id = $1 AND user_id = $2 AND kind = $3
			RETURNING 1
		)
		INSERT INTO blog_reactions (blog_id, user_id, kind)
		SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM withdrawn)
		ON CONFLICT (blog_id, user_id) DO UPDATE SET kind = EXCLUDED.kind, created_at = NOW()
	`, blogID, userID, string(kind))
	if err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}
