package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags storefront sessions in pg_stat_activity.
const applicationName = "storefront"

const defaultConnectTimeout = 10 * time.Second

// DB owns the pgx pool shared by every repository.
type DB struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{Pool: pool, logger: logger}
}

// poolConfig translates the storefront's database settings into pgx pool
// settings. A DATABASE_URL wins over the discrete host/user fields; sizing
// and lifetimes apply in both cases. Zero values keep pgx's defaults.
func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		// the DSN carries the password, so it is not echoed back
		return nil, fmt.Errorf("invalid database settings: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = min(cfg.MinConns, pc.MaxConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return pc, nil
}

// NewConnection opens the pool and verifies the server answers before the
// API starts taking traffic.
func NewConnection(cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open storefront pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reach %s/%s: %w", pc.ConnConfig.Host, pc.ConnConfig.Database, err)
	}

	source := "discrete"
	if cfg.URL != "" {
		source = "url"
	}
	logger.Info("storefront database ready",
		slog.String("source", source),
		slog.String("host", pc.ConnConfig.Host),
		slog.String("database", pc.ConnConfig.Database),
		slog.Int("max_conns", int(pc.MaxConns)),
		slog.Int("min_conns", int(pc.MinConns)),
	)
	return New(pool, logger), nil
}

func (db *DB) Close() {
	db.logger.Info("closing storefront database pool", slog.Int("total_conns", int(db.Pool.Stat().TotalConns())))
	db.Pool.Close()
}

// HealthCheck backs GET /health; it is bounded well under the HTTP timeout.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
