//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/pkg/auth"
	"github.com/BradenHooton/storefront/pkg/slug"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := database.New(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The same embedded migrations the server applies
	if err := db.Migrate(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         db,
	}, nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"blog_reactions",
		"blogs",
		"blog_categories",
		"user_wishlist",
		"product_ratings",
		"product_images",
		"products",
		"product_categories",
		"brands",
		"coupons",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// Repositories bundles every repository over one database.
type Repositories struct {
	Users             *repositories.UserRepository
	Products          *repositories.ProductRepository
	ProductCategories *repositories.ProductCategoryRepository
	BlogCategories    *repositories.BlogCategoryRepository
	Brands            *repositories.BrandRepository
	Coupons           *repositories.CouponRepository
	Blogs             *repositories.BlogRepository
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) Repositories {
	return Repositories{
		Users:             repositories.NewUserRepository(db),
		Products:          repositories.NewProductRepository(db),
		ProductCategories: repositories.NewProductCategoryRepository(db),
		BlogCategories:    repositories.NewBlogCategoryRepository(db),
		Brands:            repositories.NewBrandRepository(db),
		Coupons:           repositories.NewCouponRepository(db),
		Blogs:             repositories.NewBlogRepository(db),
	}
}

// SeedUser inserts a test user with hashed password
func SeedUser(ctx context.Context, repo *repositories.UserRepository, email, password string, role models.Role) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Slug:         slug.Join("Test", "User"),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// SeedProduct inserts a product with the given title and price.
func SeedProduct(ctx context.Context, repo *repositories.ProductRepository, title string, price float64, in models.ProductInput) (*models.Product, error) {
	in.Title = title
	in.Slug = slug.Make(title)
	in.Price = price
	product, err := repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product %q: %w", title, err)
	}
	return product, nil
}
