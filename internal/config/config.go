// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads at startup.
type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	SeedDemo    bool
	LogLevel    string
}

const devSecret = "finchat-dev-secret-change-me"

// Load reads an optional .env file from the working directory, then the
// environment. Unset variables fall back to development defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	seed, err := strconv.ParseBool(getEnv("SEED_DEMO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		secret = devSecret
	}

	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Port:        port,
		DBPath:      getEnv("DB_PATH", "./data/finchat.db"),
		JWTSecret:   secret,
		TokenTTL:    ttl,
		CORSOrigins: origins,
		SeedDemo:    seed,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
