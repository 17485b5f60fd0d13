package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/pscheid92/watchlist/internal/adapter/postgres"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Blank database settings are valid: the persistence layer starts unconfigured.
	DatabaseURL              string        `env:"DATABASE_URL"`
	DatabaseUser             string        `env:"DATABASE_USER"`
	DatabasePassword         string        `env:"DATABASE_PASSWORD"`
	DatabaseStatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" default:"5s"`

	HealthRateLimit float64 `env:"HEALTH_RATE_LIMIT" default:"1"`
	HealthRateBurst int     `env:"HEALTH_RATE_BURST" default:"5"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is required")
	}
	if cfg.DatabaseStatementTimeout <= 0 {
		return errors.New("DATABASE_STATEMENT_TIMEOUT must be positive")
	}
	if cfg.HealthRateLimit <= 0 || cfg.HealthRateBurst <= 0 {
		return errors.New("HEALTH_RATE_LIMIT and HEALTH_RATE_BURST must be positive")
	}
	return nil
}

// Database returns the connection settings for the persistence layer.
func (c *Config) Database() postgres.Config {
	return postgres.Config{
		URL:              c.DatabaseURL,
		User:             c.DatabaseUser,
		Password:         c.DatabasePassword,
		StatementTimeout: c.DatabaseStatementTimeout,
	}
}

// LogValue keeps credentials out of structured logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("app_env", c.AppEnv),
		slog.String("port", c.Port),
		slog.Bool("database_configured", c.DatabaseURL != ""),
		slog.Duration("statement_timeout", c.DatabaseStatementTimeout),
	)
}
