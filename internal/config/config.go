package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/globequiz/internal/geo"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	SessionStore string        `env:"SESSION_STORE" envDefault:"sqlite"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/globequiz.db"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	CountriesSource  string        `env:"COUNTRIES_SOURCE" envDefault:"data/ne_110m_admin_0_countries.geojson"`
	CountriesTimeout time.Duration `env:"COUNTRIES_TIMEOUT" envDefault:"30s"`

	// RandomSeed fixes target selection; 0 seeds from the clock.
	RandomSeed     int64 `env:"RANDOM_SEED" envDefault:"0"`
	TracingEnabled bool  `env:"TRACING_ENABLED" envDefault:"false"`

	BaseColor     geo.RGB `env:"COLOR_BASE" envDefault:"#4b5563"`
	AccentColor   geo.RGB `env:"COLOR_ACCENT" envDefault:"#f59e0b"`
	RevealedColor geo.RGB `env:"COLOR_REVEALED" envDefault:"#22c55e"`
	NeutralColor  geo.RGB `env:"COLOR_NEUTRAL" envDefault:"#9ca3af"`
}

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SessionStore != StoreSQLite && cfg.SessionStore != StoreRedis {
		return nil, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, cfg.SessionStore)
	}
	return &cfg, nil
}
