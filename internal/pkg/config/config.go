package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"        validate:"required,numeric"`
	Env       string `env:"ENV,       default=development" validate:"oneof=development test staging production"`
	JWTSecret string `env:"JWT_SECRET"                     validate:"required_if=Env production"`
	LogLevel  string `env:"LOG_LEVEL, default=info"        validate:"oneof=trace debug info warn warning error"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Dashboard DashboardConfig
}

// MongoConfig points at the announcements database. An empty URI disables the feed.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=ict_erp"`
}

// RedisConfig points at the session revocation store. An empty address disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0" validate:"min=0"`
}

// DashboardConfig tunes the sync layer. Per-role refresh intervals and quick action
// caps are part of the domain, not configuration.
type DashboardConfig struct {
	CacheDuration      time.Duration `env:"DASHBOARD_CACHE_DURATION,       default=5m"    validate:"min=1s"`
	StaleThreshold     time.Duration `env:"DASHBOARD_STALE_THRESHOLD,      default=2m"    validate:"min=1s"`
	MaxRetryAttempts   int           `env:"DASHBOARD_MAX_RETRY_ATTEMPTS,   default=3"     validate:"min=1,max=10"`
	BaseRetryDelay     time.Duration `env:"DASHBOARD_BASE_RETRY_DELAY,     default=1s"    validate:"min=0s"`
	FetchLatency       time.Duration `env:"DASHBOARD_FETCH_LATENCY,        default=300ms" validate:"min=0s"`
	SessionIdleTimeout time.Duration `env:"DASHBOARD_SESSION_IDLE_TIMEOUT, default=30m"   validate:"min=1m"`
	Announcements      bool          `env:"DASHBOARD_ANNOUNCEMENTS,        default=true"`
}

// Load reads configuration from environment variables using go-envconfig and panics
// when it is invalid.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// JanitorInterval is how often idle sessions are swept.
func (c DashboardConfig) JanitorInterval() time.Duration {
	return c.SessionIdleTimeout / 4
}
