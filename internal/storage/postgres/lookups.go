package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeovahfialho/portfolio/internal/domain"
)

const (
	defaultLookupLimit = 50
	maxLookupLimit     = 1000
)

// LookupRepository stores one row per served query: who asked for what and
// how it went. Prices are never written.
type LookupRepository struct {
	pool *pgxpool.Pool
}

func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool}
}

func (r *LookupRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS equity_lookups (
			id               BIGSERIAL PRIMARY KEY,
			symbol           TEXT NOT NULL,
			operation        TEXT NOT NULL,
			period           TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL,
			duration_seconds DOUBLE PRECISION NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_equity_lookups_created_at ON equity_lookups (created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("erro ao criar tabela equity_lookups: %w", err)
	}
	return nil
}

func (r *LookupRepository) RecordLookup(ctx context.Context, l domain.Lookup) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO equity_lookups (symbol, operation, period, status, duration_seconds)
		VALUES ($1, $2, $3, $4, $5)
	`, l.Symbol, l.Operation, l.Period, l.Status, l.Duration)
	if err != nil {
		return fmt.Errorf("erro ao registrar consulta: %w", err)
	}
	return nil
}

func (r *LookupRepository) RecentLookups(ctx context.Context, limit int) ([]domain.Lookup, error) {
	limit = clampLimit(limit)

	rows, err := r.pool.Query(ctx, `
		SELECT symbol, operation, period, status, duration_seconds, created_at
		FROM equity_lookups
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar consultas: %w", err)
	}

	lookups, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Lookup])
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear consultas: %w", err)
	}

	return lookups, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLookupLimit
	}
	if limit > maxLookupLimit {
		return maxLookupLimit
	}
	return limit
}
