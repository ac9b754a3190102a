package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ProductSchema lists the product fields clients may filter, sort and
// project on.
var ProductSchema = query.Schema{
	DefaultSort: "-createdAt",
	Fields: map[string]query.Field{
		"id":                {Column: "id", Kind: query.KindID},
		"title":             {Column: "title", Kind: query.KindText},
		"slug":              {Column: "slug", Kind: query.KindText},
		"shortDesc":         {Column: "short_desc", Kind: query.KindText},
		"longDesc":          {Column: "long_desc", Kind: query.KindText},
		"price":             {Column: "price", Kind: query.KindNumber, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"quantity":          {Column: "quantity", Kind: query.KindNumber, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"sold":              {Column: "sold", Kind: query.KindNumber, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"totalRating":       {Column: "total_rating", Kind: query.KindNumber, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"category":          {Column: "category_ids", Kind: query.KindTextArray},
		"brand":             {Column: "brand_id", Kind: query.KindID},
		"tags":              {Column: "tags", Kind: query.KindTextArray},
		"color":             {Column: "colors", Kind: query.KindTextArray},
		"size":              {Column: "sizes", Kind: query.KindTextArray},
		"status":            {Column: "status", Kind: query.KindBool},
		"createdAt":         {Column: "created_at", Kind: query.KindTime, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"updatedAt":         {Column: "updated_at", Kind: query.KindTime, Ops: []query.Op{query.OpGt, query.OpGte, query.OpLt, query.OpLte}},
		"productThumbnails": {},
		"images":            {},
		"ratings":           {},
	},
}

type ProductRepository struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, title, slug, short_desc, long_desc, price, quantity, sold,
	category_ids, brand_id, tags, colors, sizes, thumbnail, total_rating, status,
	created_at, updated_at`

func scanProductRow(scanner rowScanner) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.ShortDesc, &p.LongDesc, &p.Price, &p.Quantity, &p.Sold,
		&p.CategoryIDs, &p.BrandID, &p.Tags, &p.Colors, &p.Sizes, &p.Thumbnail, &p.TotalRating, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	p.Images = []models.ProductImage{}
	p.Ratings = []models.Rating{}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	stmt := `
		INSERT INTO products (title, slug, short_desc, long_desc, price, quantity, category_ids, brand_id, tags, colors, sizes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + productColumns

	return scanProductRow(r.db.Pool.QueryRow(ctx, stmt,
		in.Title, in.Slug, in.ShortDesc, in.LongDesc, in.Price, in.Quantity,
		pq.Array(orEmpty(in.CategoryIDs)), in.BrandID,
		pq.Array(orEmpty(in.Tags)), pq.Array(orEmpty(in.Colors)), pq.Array(orEmpty(in.Sizes)),
	))
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.getOne(ctx, r.db.Pool, `id = $1`, id)
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.getOne(ctx, r.db.Pool, `slug = $1`, slug)
}

func (r *ProductRepository) getOne(ctx context.Context, q database.Querier, cond string, arg any) (*models.Product, error) {
	p, err := scanProductRow(q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+cond, arg))
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, q, []*models.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns one page of products matching spec.
func (r *ProductRepository) List(ctx context.Context, spec *query.Spec) ([]*models.Product, error) {
	where, args := spec.Where(1)

	sql := `SELECT ` + productColumns + ` FROM products`
	if where != "" {
		sql += ` WHERE ` + where
	}
	sql += fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, spec.OrderBy(), len(args)+1, len(args)+2)
	args = append(args, spec.Limit, spec.Skip)

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, spec.Limit)
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachRelations(ctx, r.db.Pool, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Count returns the number of products matching the filters of spec.
func (r *ProductRepository) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	where, args := spec.Where(1)

	sql := `SELECT COUNT(*) FROM products`
	if where != "" {
		sql += ` WHERE ` + where
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	stmt := `
		UPDATE products SET title = $1, slug = $2, short_desc = $3, long_desc = $4, price = $5, quantity = $6,
			category_ids = $7, brand_id = $8, tags = $9, colors = $10, sizes = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING ` + productColumns

	p, err := scanProductRow(r.db.Pool.QueryRow(ctx, stmt,
		in.Title, in.Slug, in.ShortDesc, in.LongDesc, in.Price, in.Quantity,
		pq.Array(orEmpty(in.CategoryIDs)), in.BrandID,
		pq.Array(orEmpty(in.Tags)), pq.Array(orEmpty(in.Colors)), pq.Array(orEmpty(in.Sizes)),
		id,
	))
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, r.db.Pool, []*models.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Rate upserts the user's rating and recomputes total_rating as the
// rounded mean of all stars. The product row is locked for the duration,
// so concurrent raters are applied one after another.
func (r *ProductRepository) Rate(ctx context.Context, productID, userID string, star int, comment *string) (*models.Product, error) {
	var product *models.Product

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&locked); err != nil {
			return database.MapPostgresError(err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO product_ratings (product_id, user_id, star, comment)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id, user_id)
			DO UPDATE SET star = EXCLUDED.star, comment = EXCLUDED.comment, updated_at = NOW()
		`, productID, userID, star, comment)
		if err != nil {
			return database.MapPostgresError(err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE products
			SET total_rating = COALESCE((SELECT ROUND(AVG(star)) FROM product_ratings WHERE product_id = $1), 0),
				updated_at = NOW()
			WHERE id = $1
		`, productID)
		if err != nil {
			return database.MapPostgresError(err)
		}

		product, err = r.getOne(ctx, tx, `id = $1`, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// AddImages records uploaded images. The first image becomes the
// thumbnail when the product has none.
func (r *ProductRepository) AddImages(ctx context.Context, productID string, images []models.ProductImage) (*models.Product, error) {
	var product *models.Product

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&locked); err != nil {
			return database.MapPostgresError(err)
		}

		batch := &pgx.Batch{}
		for _, img := range images {
			batch.Queue(`INSERT INTO product_images (product_id, url, storage_key) VALUES ($1, $2, $3)`,
				productID, img.URL, img.StorageKey)
		}
		if len(images) > 0 {
			batch.Queue(`UPDATE products SET thumbnail = COALESCE(thumbnail, $2), updated_at = NOW() WHERE id = $1`,
				productID, images[0].URL)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return database.MapPostgresError(err)
		}

		var err error
		product, err = r.getOne(ctx, tx, `id = $1`, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// attachRelations loads images and ratings for products in two queries.
func (r *ProductRepository) attachRelations(ctx context.Context, q database.Querier, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[string]*models.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := q.Query(ctx, `
		SELECT product_id, id, url, storage_key, created_at
		FROM product_images WHERE product_id = ANY($1::uuid[])
		ORDER BY created_at, id`, pq.Array(ids))
	if err != nil {
		return database.MapPostgresError(err)
	}
	for rows.Next() {
		var productID string
		var img models.ProductImage
		if err := rows.Scan(&productID, &img.ID, &img.URL, &img.StorageKey, &img.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		byID[productID].Images = append(byID[productID].Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating images: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT product_id, user_id, star, comment, updated_at
		FROM product_ratings WHERE product_id = ANY($1::uuid[])
		ORDER BY created_at, user_id`, pq.Array(ids))
	if err != nil {
		return database.MapPostgresError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var rating models.Rating
		if err := rows.Scan(&productID, &rating.UserID, &rating.Star, &rating.Comment, &rating.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		byID[productID].Ratings = append(byID[productID].Ratings, rating)
	}
	return rows.Err()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
