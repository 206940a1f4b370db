package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

type Config struct {
	VantageAPIKey   string        `envconfig:"VANTAGE_API_KEY" required:"true"`
	VantageBaseURL  string        `envconfig:"VANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"0s"`

	DatabaseURL            string        `envconfig:"DATABASE_URL"`
	DatabaseMaxConns       int32         `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMinConns       int32         `envconfig:"DATABASE_MIN_CONNS" default:"1"`
	DatabaseMaxConnLife    time.Duration `envconfig:"DATABASE_MAX_CONN_LIFE" default:"1h"`
	DatabaseConnectTimeout time.Duration `envconfig:"DATABASE_CONNECT_TIMEOUT" default:"10s"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	APIHost         string        `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort         string        `envconfig:"API_PORT" default:"8000"`
	APIReadTimeout  time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	APIWriteTimeout time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"60s"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	WatchCron string `envconfig:"WATCH_CRON" default:"0 0 18 * * 1-5"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads the configuration from the environment. A missing API key is
// reported here, before any network call is attempted.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		if missingAPIKey(err) {
			return nil, fmt.Errorf("%w: %v (defina VANTAGE_API_KEY com a chave da Alpha Vantage)", domain.ErrConfiguration, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if strings.TrimSpace(cfg.VantageAPIKey) == "" {
		return nil, fmt.Errorf("%w: VANTAGE_API_KEY está vazia", domain.ErrConfiguration)
	}
	return &cfg, nil
}

// missingAPIKey reports whether err is envconfig's required-field failure for
// VANTAGE_API_KEY rather than a malformed value elsewhere.
func missingAPIKey(err error) bool {
	var perr *envconfig.ParseError
	if errors.As(err, &perr) {
		return false
	}
	_, set := os.LookupEnv("VANTAGE_API_KEY")
	return !set
}

func (c *Config) Development() bool {
	return c.Environment == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}
