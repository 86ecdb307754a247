package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings, read from environment variables with
// defaults suitable for local development.
type Config struct {
	Port    int
	BaseURL string

	// Discrete DB fields, or DatabaseURL to override them wholesale.
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Empty RedisAddr disables the redirect cache.
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	CodeLength int

	// Rate limit for POST /api/shorten; Requests <= 0 disables it.
	RateLimitRequests int64
	RateLimitWindow   time.Duration

	LogFile   string
	PublicDir string
}

// Load reads configuration from the environment.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "shortly")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("CODE_LENGTH", 7)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("PUBLIC_DIR", "./public")

	cfg := Config{
		Port:              v.GetInt("PORT"),
		BaseURL:           trimTrailingSlash(v.GetString("BASE_URL")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetInt("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		CodeLength:        v.GetInt("CODE_LENGTH"),
		RateLimitRequests: v.GetInt64("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		LogFile:           v.GetString("LOG_FILE"),
		PublicDir:         v.GetString("PUBLIC_DIR"),
	}

	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 7
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = 15 * time.Minute
	}
	return cfg
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
