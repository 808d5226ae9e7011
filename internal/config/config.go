package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogVerbose      bool          `env:"LOG_VERBOSE" envDefault:"true"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"10m"`
	SeedDemo        bool          `env:"SEED_DEMO_RAFFLES" envDefault:"true"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	LegacyAPIKey    string        `env:"API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiEndpoint  string        `env:"GEMINI_ENDPOINT"`
	DescribeTimeout time.Duration `env:"DESCRIBE_TIMEOUT" envDefault:"10s"`
}

// APIKey returns the Gemini credential, preferring GEMINI_API_KEY over API_KEY.
func (c Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.LegacyAPIKey
}

// Load reads the optional env files into the environment, without overriding
// variables already set, and parses the configuration.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse()
}

// Parse builds a Config from the current environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("parse env: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.JanitorInterval <= 0 {
		return Config{}, fmt.Errorf("parse env: JANITOR_INTERVAL must be positive, got %s", cfg.JanitorInterval)
	}
	return cfg, nil
}
