package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stwalsh4118/immowert/api/internal/config"
)

// Database wraps the pgx connection pool and provides database operations.
type Database struct {
	Pool *pgxpool.Pool
}

// schema is applied by Migrate. It holds the per-city base prices; all other
// rate tables come from the rates file or the built-in defaults.
const schema = `
CREATE TABLE IF NOT EXISTS city_rates (
	id                       TEXT PRIMARY KEY,
	name                     TEXT NOT NULL,
	base_rent_price_per_sqm  DOUBLE PRECISION NOT NULL DEFAULT 0,
	size_degression_exponent DOUBLE PRECISION NOT NULL DEFAULT 0,
	sale_factor              DOUBLE PRECISION NOT NULL DEFAULT 0,
	land_price_per_sqm       DOUBLE PRECISION NOT NULL DEFAULT 0,
	building_price_per_sqm   DOUBLE PRECISION NOT NULL DEFAULT 0,
	apartment_price_per_sqm  DOUBLE PRECISION NOT NULL DEFAULT 0,
	market_adjustment_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	sort_order               INTEGER NOT NULL DEFAULT 0,
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DSN builds the connection string for cfg. User and password are escaped.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// NewPostgresPool creates a new PostgreSQL connection pool using pgx.
// It configures the pool based on the provided database configuration,
// tests the connection, and returns a Database instance.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConns = int32(cfg.PoolMax)

	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour

	// Health check period (how often to check idle connections)
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection immediately
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// Migrate creates the city_rates table if it does not exist.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close gracefully closes the database connection pool.
// It waits for all connections to be returned to the pool before closing.
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// PoolStats is the subset of pool statistics reported on /health/ready.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// Stats returns a snapshot of the connection pool, or nil without a pool.
func (db *Database) Stats() *PoolStats {
	if db == nil || db.Pool == nil {
		return nil
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}
}
