package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	unsetenv(t, "VANTAGE_API_KEY")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Contains(t, err.Error(), "VANTAGE_API_KEY")
}

func TestLoad_MalformedValueHasNoAPIKeyHint(t *testing.T) {
	t.Setenv("VANTAGE_API_KEY", "demo")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Contains(t, err.Error(), "UPSTREAM_TIMEOUT")
	assert.NotContains(t, err.Error(), "VANTAGE_API_KEY")
}

func TestLoad_MissingAPIKeyHint(t *testing.T) {
	unsetenv(t, "VANTAGE_API_KEY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defina VANTAGE_API_KEY")
}

func TestLoad_BlankAPIKey(t *testing.T) {
	t.Setenv("VANTAGE_API_KEY", "  ")

	_, err := Load()
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "VANTAGE_BASE_URL", "UPSTREAM_TIMEOUT", "DATABASE_URL", "DATABASE_CONNECT_TIMEOUT", "REDIS_URL",
		"API_HOST", "API_PORT", "ENVIRONMENT")
	t.Setenv("VANTAGE_API_KEY", "demo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.VantageAPIKey)
	assert.Equal(t, "https://www.alphavantage.co", cfg.VantageBaseURL)
	assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Second, cfg.DatabaseConnectTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.True(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VANTAGE_API_KEY", "secret")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.False(t, cfg.Development())
}
