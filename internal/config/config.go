// Package config provides application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/abhisek/studytutor/internal/auth"
	"github.com/abhisek/studytutor/internal/llm"
)

// Config holds all application configuration. The API key is not part of
// it; users enter one per session.
type Config struct {
	// Password is the shared login password (APP_PASSWORD). Empty means
	// unset.
	Password string

	// PasswordHash is a bcrypt hash of the shared password
	// (STUDYTUTOR_PASSWORD_HASH). It takes precedence over Password.
	PasswordHash string

	LLM llm.Config

	// DBPath is the usage log database. Empty keeps the log in memory.
	DBPath string

	// LogFile receives structured logs. Empty discards them.
	LogFile string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	// A missing .env is normal; real environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Password:     getEnv("APP_PASSWORD", ""),
		PasswordHash: getEnv("STUDYTUTOR_PASSWORD_HASH", ""),
		LLM:          llm.ConfigFromEnv(),
		DBPath:       getEnv("STUDYTUTOR_DB", ""),
		LogFile:      getEnv("STUDYTUTOR_LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that cannot be fixed at runtime. A missing
// password is not an error here; the login screen reports it.
func (c *Config) Validate() error {
	return c.LLM.Validate()
}

// PasswordConfigured reports whether a login password is set.
func (c *Config) PasswordConfigured() bool {
	return c.Password != "" || c.PasswordHash != ""
}

// Gate returns the login gate for the configured password.
func (c *Config) Gate() *auth.Gate {
	if c.PasswordHash != "" {
		return auth.NewHashedGate(c.PasswordHash)
	}
	return auth.NewGate(c.Password)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
