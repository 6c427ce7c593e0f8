package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds settings for the Postgres record store.
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	SeedOnStart  bool
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:    getenvWithDefault("APP_PORT", "8080"),
			GinMode: getenvWithDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			DSN:          getenvWithDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=farm_analytics port=5432 sslmode=disable"),
			MaxOpenConns: getenvIntWithDefault("DATABASE_MAX_OPEN_CONNS", 10),
			SeedOnStart:  os.Getenv("SEED_ON_START") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN must be provided")
	}
	if c.Database.MaxOpenConns < 1 {
		return errors.New("DATABASE_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvIntWithDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return fallback
	}
	return n
}
