// Package config loads engine configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/signalcards/internal/spaced_repetition"
)

// Config holds everything main needs to wire the engine.
type Config struct {
	// DBDriver is "postgres" or "sqlite3".
	DBDriver string
	// DBDSN is the driver-specific connection string.
	DBDSN string
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string
	// RequestTimeout bounds each API request; exceeding it fails the call
	// instead of hanging.
	RequestTimeout time.Duration
	// DefaultBatchSize applies when a session request carries none.
	DefaultBatchSize int
	// Strategy selects the scheduling strategy, never mixed per call.
	Strategy spaced_repetition.Kind
	// CategoryCacheTTL bounds staleness of the category counts cache.
	CategoryCacheTTL time.Duration
	// AllowedOrigins is the CORS allow-list for the web UI.
	AllowedOrigins []string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; container deployments set real env vars.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:            getEnv("DB_DSN", "data/signalcards.db"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DefaultBatchSize: getInt("DEFAULT_BATCH_SIZE", 20),
		Strategy:         spaced_repetition.Kind(getEnv("SCHEDULING_STRATEGY", string(spaced_repetition.KindLeitner))),
		CategoryCacheTTL: getDuration("CATEGORY_CACHE_TTL", time.Hour),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
