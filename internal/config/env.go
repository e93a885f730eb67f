// Package config loads engine configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the resolver and its surfaces need at startup.
type Config struct {
	// ApifyToken enables the paid transcript-scraping fallback when set.
	ApifyToken string
	// DBPath is the SQLite cache location; used unless RedisAddr is set.
	DBPath string
	// RedisAddr selects the shared Redis cache backend when non-empty.
	RedisAddr string
	// FetchTimeout bounds every provider network call.
	FetchTimeout time.Duration
	// HTTPPort is where `linksum serve` listens.
	HTTPPort string
}

// LoadEnv loads a .env file when one is present. A missing file is fine;
// environment variables may be set system-wide.
func LoadEnv() error {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		ApifyToken:   os.Getenv("APIFY_API_TOKEN"),
		DBPath:       getEnvOrDefault("LINKSUM_DB_PATH", "data/transcripts.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		FetchTimeout: getDurationOrDefault("LINKSUM_FETCH_TIMEOUT", 15*time.Second),
		HTTPPort:     getEnvOrDefault("LINKSUM_HTTP_PORT", "8787"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
