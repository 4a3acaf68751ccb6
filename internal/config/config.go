// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port            int           `env:"PORT" env-default:"8080"`
	Env             string        `env:"ENV" env-default:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	// Database
	DatabasePath string `env:"DATABASE_PATH" env-default:"./data/liturgy.db"`

	// Authentication
	AdminAPIKey string `env:"ADMIN_API_KEY"` // bootstrap key for the admin endpoints

	// Logging
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`  // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" env-default:"text"` // json, text

	// Calendar
	Timezone            string `env:"TIMEZONE" env-default:"UTC"` // IANA zone that decides "today"
	CorpusChristiPolicy string `env:"CORPUS_CHRISTI_POLICY" env-default:"sunday"`
	TodayRefreshCron    string `env:"TODAY_REFRESH_CRON" env-default:"5 0 * * *"`
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// No-op in production where env vars are set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// Local development runs without an admin key.
	if c.Env == EnvProduction && c.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	if _, err := calendar.ParseCorpusChristiPolicy(c.CorpusChristiPolicy); err != nil {
		errs = append(errs, fmt.Errorf("CORPUS_CHRISTI_POLICY: %w", err))
	}

	if _, err := cron.ParseStandard(c.TodayRefreshCron); err != nil {
		errs = append(errs, fmt.Errorf("TODAY_REFRESH_CRON: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Policy returns the configured Corpus Christi policy.
func (c *Config) Policy() calendar.CorpusChristiPolicy {
	p, err := calendar.ParseCorpusChristiPolicy(c.CorpusChristiPolicy)
	if err != nil {
		return calendar.CorpusChristiSunday
	}
	return p
}
