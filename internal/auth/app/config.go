package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration, populated from environment
// variables.
type Config struct {
	// Database: path to the SQLite database file
	DatabaseFile string `env:"AUTHD_DATABASE_FILE" envDefault:"authd.db"`

	// Path to the file containing the pepper for password hashing; generated
	// on first start when absent
	PepperFile string `env:"AUTHD_PEPPER_FILE" envDefault:"pepper"`

	// Environment (dev, staging, prod)
	Env string `env:"ENV" envDefault:"dev"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
