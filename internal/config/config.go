package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Storage backend names accepted in Config.StorageBackend.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// StorageBackend selects the ledger store: "memory" keeps all state
	// in-process, "postgres" uses the database settings below.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"password"`
	DBName     string `env:"DB_NAME" envDefault:"custodial_ledger"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// InterestRate is the per-application interest rate as a decimal
	// string, e.g. "0.01" for 1%.
	InterestRate string `env:"INTEREST_RATE" envDefault:"0.01"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.StorageBackend != BackendMemory && cfg.StorageBackend != BackendPostgres {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if _, err := cfg.GetInterestRate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDBConnectionString builds the lib/pq connection string.
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// GetInterestRate parses the configured interest rate.
func (c *Config) GetInterestRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.InterestRate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid interest rate %q: %w", c.InterestRate, err)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("interest rate must not be negative: %s", c.InterestRate)
	}
	return rate, nil
}
