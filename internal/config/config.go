// Package config provides server configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DBPath is the SQLite file holding topic history.
	DBPath string

	// OpenAIAPIKey is the server-held credential injected by the gateway.
	OpenAIAPIKey string

	// UpstreamBaseURL overrides the backend API base URL (tests, proxies).
	UpstreamBaseURL string

	// AllowedOrigins for CORS. Defaults to all.
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("READCOMP_DB_PATH", "./data/readcomp.db"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		UpstreamBaseURL: os.Getenv("READCOMP_UPSTREAM_URL"),
		AllowedOrigins:  splitList(getEnv("READCOMP_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// The API key is deliberately not required here: the server starts without
// one and the gateway answers with its configuration error instead.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("READCOMP_DB_PATH cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
