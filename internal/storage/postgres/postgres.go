package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeovahfialho/portfolio/internal/config"
	"github.com/jeovahfialho/portfolio/internal/domain"
)

const (
	defaultConnectTimeout = 10 * time.Second
	maxConnIdleTime       = 30 * time.Minute
)

// DB is the optional lookup-log database. Open returns it connected and with
// the equity_lookups table in place.
type DB struct {
	pool    *pgxpool.Pool
	lookups *LookupRepository
}

func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pool do registro de consultas: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erro ao conectar ao registro de consultas: %w", err)
	}

	lookups := NewLookupRepository(pool)
	if err := lookups.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{pool: pool, lookups: lookups}, nil
}

func newPoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL não definida", domain.ErrConfiguration)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: DATABASE_URL inválida: %v", domain.ErrConfiguration, err)
	}

	if cfg.DatabaseMaxConns > 0 {
		poolConfig.MaxConns = cfg.DatabaseMaxConns
	}
	if cfg.DatabaseMinConns > 0 {
		poolConfig.MinConns = cfg.DatabaseMinConns
	}
	if cfg.DatabaseMaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.DatabaseMaxConnLife
	}
	poolConfig.MaxConnIdleTime = maxConnIdleTime

	return poolConfig, nil
}

func connectTimeout(cfg *config.Config) time.Duration {
	if cfg.DatabaseConnectTimeout > 0 {
		return cfg.DatabaseConnectTimeout
	}
	return defaultConnectTimeout
}

func (db *DB) Lookups() *LookupRepository {
	return db.lookups
}

func (db *DB) Close() {
	db.pool.Close()
}

// HealthCheck backs the postgres entry of /ready and `portfolio health`.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
