package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingCredentials is fatal at startup: without generative-service
// credentials no session can do anything useful.
var ErrMissingCredentials = errors.New("missing generative service credentials")

// Config holds all configuration for the trainer.
type Config struct {
	// LLM
	LLMProvider string // claude, openai
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string

	// Service call discipline
	RequestTimeout time.Duration

	// Schema catalog; empty means the built-in industries
	SchemasPath string

	// Session
	KeepProgressOnIndustryChange bool

	// Playground (optional live query execution)
	PlaygroundDriver string // sqlite3, pgx; empty disables
	PlaygroundDSN    string

	Debug bool
}

// Load reads configuration from environment variables. A missing API key is
// a fatal condition reported to the operator here, never a per-operation
// error later.
func Load() (*Config, error) {
	cfg := &Config{
		LLMProvider:                  getEnv("LLM_PROVIDER", "claude"),
		LLMAPIKey:                    getEnv("LLM_API_KEY", ""),
		LLMModel:                     getEnv("LLM_MODEL", ""),
		LLMBaseURL:                   getEnv("LLM_BASE_URL", ""),
		RequestTimeout:               time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		SchemasPath:                  getEnv("SCHEMAS_PATH", ""),
		KeepProgressOnIndustryChange: getEnvBool("KEEP_PROGRESS_ON_INDUSTRY_CHANGE", true),
		PlaygroundDriver:             getEnv("PLAYGROUND_DRIVER", ""),
		PlaygroundDSN:                getEnv("PLAYGROUND_DSN", ""),
		Debug:                        getEnvBool("DEBUG", false),
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("%w: set LLM_API_KEY", ErrMissingCredentials)
	}
	if cfg.PlaygroundDriver != "" && cfg.PlaygroundDSN == "" {
		return nil, fmt.Errorf("PLAYGROUND_DSN required when PLAYGROUND_DRIVER is set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
