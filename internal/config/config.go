// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration. It is loaded once at
// startup and passed by value to whatever needs it; nothing reads the
// environment after Load returns.
type Config struct {
	// Server
	Port              string
	CORSAllowedOrigin string

	// Database
	DBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Rate limit
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads the configuration from environment variables. JWT_SECRET is
// required; everything else has a default.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("required environment variable JWT_SECRET is not set")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		DBPath:             getEnv("DB_PATH", "./data/backplan.db"),
		JWTSecret:          secret,
		TokenDuration:      getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 120),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
