package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable through STORE_DRIVER.
const (
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string
	StoreDriver string
	// DatabaseURL is optional. Without it the leaderboard serves the built-in
	// sample and finished rounds are not recorded.
	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string
	RoundTTL    time.Duration
	SheetTTL    time.Duration
	LockTTL     time.Duration
	// Guess endpoints are limited per client IP.
	RateLimitRPS   float64
	RateLimitBurst int
	// CompressionLevel is the brotli quality (0-11) for JSON responses.
	CompressionLevel int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		StoreDriver:      parseDriver(getEnv("STORE_DRIVER", StoreDriverRedis)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MaxDBConns:       int32(getEnvInt("MAX_DB_CONNS", 8)),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RoundTTL:         time.Duration(getEnvInt("ROUND_TTL_HOURS", 24)) * time.Hour,
		SheetTTL:         time.Duration(getEnvInt("SHEET_TTL_HOURS", 2)) * time.Hour,
		LockTTL:          time.Duration(getEnvInt("LOCK_TTL_MS", 3000)) * time.Millisecond,
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
		CompressionLevel: getEnvInt("COMPRESSION_LEVEL", 5),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// UsesRedis reports whether rounds, stats and sheets live in Redis.
func (c *Config) UsesRedis() bool {
	return c.StoreDriver == StoreDriverRedis
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

// parseDriver normalizes STORE_DRIVER; unknown values fall back to redis.
func parseDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StoreDriverMemory:
		return StoreDriverMemory
	default:
		return StoreDriverRedis
	}
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
