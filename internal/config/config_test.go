package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CodeLength != 7 {
		t.Errorf("CodeLength = %d, want 7", cfg.CodeLength)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (cache off)", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/15m", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("CODE_LENGTH", "9")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")

	cfg := Load()

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.BaseURL != "https://sho.rt" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.BaseURL)
	}
	if cfg.CodeLength != 9 {
		t.Errorf("CodeLength = %d, want 9", cfg.CodeLength)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CODE_LENGTH", "-3")
	t.Setenv("CACHE_TTL", "0s")

	cfg := Load()

	if cfg.CodeLength != 7 {
		t.Errorf("CodeLength = %d, want fallback 7", cfg.CodeLength)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want fallback 24h", cfg.CacheTTL)
	}
}
