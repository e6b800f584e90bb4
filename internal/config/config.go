// Package config centralises configuration parsing for the day-plan service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultGeminiBaseURL is the public Generative Language API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// Config captures runtime configuration values for the day-plan service.
type Config struct {
	HTTPAddress        string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
// The API key carries no default: Validate rejects a Config without one.
func Load() Config {
	cfg := Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", DefaultGeminiBaseURL),
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 30*time.Second),
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	cfg.CORSAllowedOrigins = splitAndTrim(origins)
	return cfg
}

// Validate reports whether the configuration is complete enough to start.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return nil
}

// MaskSecret renders a credential safe for logs, keeping only the first seven
// and last four characters visible.
func MaskSecret(secret string) string {
	if len(secret) <= 11 {
		return "***"
	}
	return secret[:7] + "..." + secret[len(secret)-4:]
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
