//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeovahfialho/portfolio/internal/config"
	"github.com/jeovahfialho/portfolio/internal/domain"
)

func TestLookupRepository_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL não definida")
	}

	ctx := context.Background()
	db, err := Open(ctx, &config.Config{DatabaseURL: url, DatabaseMaxConns: 2, DatabaseMinConns: 1})
	require.NoError(t, err)
	defer db.Close()

	repo := db.Lookups()
	_, err = db.pool.Exec(ctx, "TRUNCATE equity_lookups")
	require.NoError(t, err)

	require.NoError(t, repo.RecordLookup(ctx, domain.Lookup{
		Symbol: "IBM", Operation: "summary", Period: "year", Status: "success", Duration: 0.42,
	}))

	got, err := repo.RecentLookups(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "IBM", got[0].Symbol)
	assert.Equal(t, "year", got[0].Period)
	assert.False(t, got[0].CreatedAt.IsZero())
}
