// Package config centralises configuration parsing for the energy ledger.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress    string
	DBDriver       string
	DBURL          string
	SQLitePath     string
	KafkaBrokers   []string // Empty disables event publishing.
	KafkaTopic     string
	PublishTimeout time.Duration
	CORSOrigins    []string
	UserHeader     string // Trusted header carrying the caller's numeric user id.
}

// Load reads a .env file if present, then environment variables, applying
// defaults for local dev.
func Load() Config {
	// A missing .env is normal outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:    getEnv("HTTP_ADDRESS", ":8080"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBURL:          getEnv("DB_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "energy-ledger.db"),
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "energy-ledger.events"),
		PublishTimeout: getDurationEnv("PUBLISH_TIMEOUT", 5*time.Second),
		CORSOrigins:    splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		UserHeader:     getEnv("USER_HEADER", "X-User-ID"),
	}
	return cfg
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=%s", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
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
