package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Clark-Hu/hotel-rating-services/internal/discovery"
)

// Hotel lookup policies for the user service.
const (
	PolicyFail    = "fail"
	PolicyPartial = "partial"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string  `env:"PORT" envDefault:"8080"`
	DBURL            string  `env:"DB_URL"`
	DBAutoMigrate    bool    `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	ReadTimeoutSecs  int     `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs int     `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs  int     `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`
	RateLimitRPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst   int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	AuthToken        string  `env:"AUTH_TOKEN"`

	DBMaxConns        int `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns        int `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxIdleSecs     int `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs     int `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs int `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
	DBStatementCache  int `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`

	Aggregator Aggregator
}

// Aggregator holds the settings only the user service reads.
type Aggregator struct {
	ServiceRegistry       map[string]string `env:"SERVICE_REGISTRY" envKeyValSeparator:"="`
	HotelServiceName      string            `env:"HOTEL_SERVICE_NAME" envDefault:"HOTEL-SERVICE"`
	RatingServiceName     string            `env:"RATING_SERVICE_NAME" envDefault:"RATING-SERVICE"`
	DownstreamTimeoutSecs int               `env:"DOWNSTREAM_TIMEOUT_SECS" envDefault:"5"`
	UserFetchAttempts     int               `env:"USER_FETCH_ATTEMPTS" envDefault:"3"`
	UserFetchDelayMillis  int               `env:"USER_FETCH_RETRY_DELAY_MS" envDefault:"100"`
	EnrichMaxConcurrency  int               `env:"ENRICH_MAX_CONCURRENCY" envDefault:"8"`
	HotelLookupPolicy     string            `env:"HOTEL_LOOKUP_POLICY" envDefault:"fail"`
}

// Load reads configuration from the environment, after merging an optional
// .env file (ENV_FILE overrides the path), and validates the common settings.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}

	return cfg, nil
}

// LoadAggregator is Load plus validation of the user service's downstream settings.
func LoadAggregator() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Aggregator.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (a Aggregator) validate() error {
	registry := make(map[string]string, len(a.ServiceRegistry))
	for name, raw := range a.ServiceRegistry {
		registry[discovery.Key(name)] = raw
	}
	for _, name := range []string{a.HotelServiceName, a.RatingServiceName} {
		raw, ok := registry[discovery.Key(name)]
		if !ok {
			return fmt.Errorf("SERVICE_REGISTRY is missing an entry for %s", name)
		}
		if u, err := url.Parse(strings.TrimSpace(raw)); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("SERVICE_REGISTRY entry for %s is not an absolute URL", name)
		}
	}
	if a.DownstreamTimeoutSecs <= 0 {
		return fmt.Errorf("DOWNSTREAM_TIMEOUT_SECS must be positive")
	}
	if a.UserFetchAttempts <= 0 {
		return fmt.Errorf("USER_FETCH_ATTEMPTS must be positive")
	}
	if a.UserFetchDelayMillis <= 0 {
		return fmt.Errorf("USER_FETCH_RETRY_DELAY_MS must be positive")
	}
	if a.EnrichMaxConcurrency <= 0 {
		return fmt.Errorf("ENRICH_MAX_CONCURRENCY must be positive")
	}
	switch a.HotelLookupPolicy {
	case PolicyFail, PolicyPartial:
	default:
		return fmt.Errorf("HOTEL_LOOKUP_POLICY must be %q or %q", PolicyFail, PolicyPartial)
	}
	return nil
}

func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
