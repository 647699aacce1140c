package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Rate sources understood by RATES_SOURCE.
const (
	RatesSourceDefault  = "default"
	RatesSourceFile     = "file"
	RatesSourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Rates    RatesConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig overrides the environment-derived log level when Level is set.
type LogConfig struct {
	Level string
}

// RatesConfig selects where the valuation rate tables come from.
type RatesConfig struct {
	Source  string
	File    string
	Refresh time.Duration
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// UsesDatabase reports whether the configured rate source needs PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.Rates.Source == RatesSourcePostgres
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("RATES_SOURCE", RatesSourceDefault)
	v.SetDefault("RATES_FILE", "")
	v.SetDefault("RATES_REFRESH", "0s")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "immowert")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			Level: strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		},
		Rates: RatesConfig{
			Source:  strings.ToLower(strings.TrimSpace(v.GetString("RATES_SOURCE"))),
			File:    v.GetString("RATES_FILE"),
			Refresh: v.GetDuration("RATES_REFRESH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Database settings are only checked when the postgres rate source is used.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	switch c.Rates.Source {
	case RatesSourceDefault, RatesSourcePostgres:
	case RatesSourceFile:
		if c.Rates.File == "" {
			return fmt.Errorf("RATES_FILE is required when RATES_SOURCE is file")
		}
	default:
		return fmt.Errorf("RATES_SOURCE must be one of default, file, postgres")
	}
	if c.Rates.Refresh < 0 {
		return fmt.Errorf("RATES_REFRESH must be non-negative")
	}

	if c.UsesDatabase() {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// Validate checks the PostgreSQL connection settings.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
