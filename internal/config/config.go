// Package config provides application configuration management.
// Configuration is loaded once at startup from environment variables,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Application settings
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        int    `env:"APP_PORT" envDefault:"8080"`

	// Session signing secret. Required in production; a development
	// fallback is generated so local runs work without a .env file.
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Storage backends. Resolution precedence is Redis, then Scylla,
	// then the in-process store.
	RedisURL       string   `env:"REDIS_URL"`
	ScyllaNodes    []string `env:"SCYLLA_NODES" envSeparator:","`
	ScyllaKeyspace string   `env:"SCYLLA_KEYSPACE" envDefault:"snapdish"`

	// Event stream (optional)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	EventTopic   string   `env:"EVENT_TOPIC" envDefault:"snapdish.security-events"`

	// Signup rate limiting
	SignupRateLimit  int           `env:"SIGNUP_RATE_LIMIT" envDefault:"5"`
	SignupRateWindow time.Duration `env:"SIGNUP_RATE_WINDOW" envDefault:"60s"`

	// Require a JSON content type and a plausible user agent on signup.
	StrictHeaders bool `env:"STRICT_HEADERS" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// BcryptCost returns the password hashing cost for the current environment.
// Production pays the higher cost for brute-force resistance.
func (c *Config) BcryptCost() int {
	if c.IsProduction() {
		return 12
	}
	return 10
}

// ServerAddress returns the listen address for the HTTP server.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the optional .env file, parses environment variables and
// validates the result.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Environment)
	}

	if strings.TrimSpace(c.SessionSecret) == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		c.SessionSecret = "snapdish-dev-secret"
	}

	if c.SignupRateLimit <= 0 {
		return fmt.Errorf("SIGNUP_RATE_LIMIT must be positive, got %d", c.SignupRateLimit)
	}
	if c.SignupRateWindow <= 0 {
		return fmt.Errorf("SIGNUP_RATE_WINDOW must be positive, got %s", c.SignupRateWindow)
	}

	return nil
}
