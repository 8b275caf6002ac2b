package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/job-board/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(envFrom(map[string]string{"SESSION_SECRET": testSecret}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabasePath != "job-board.db" {
		t.Fatalf("expected default database path, got %s", cfg.DatabasePath)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session TTL, got %s", cfg.SessionTTL)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies by default")
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info log level, got %s", cfg.LogLevel)
	}
	if cfg.AdminConfigured() {
		t.Fatal("expected no admin bootstrap by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(envFrom(map[string]string{
		"SESSION_SECRET": testSecret,
		"PORT":           "9090",
		"SESSION_TTL":    "90m",
		"COOKIE_SECURE":  "false",
		"BCRYPT_COST":    "4",
		"LOG_LEVEL":      "debug",
		"REDIS_ADDR":     "localhost:6379",
		"ADMIN_USERNAME": "root",
		"ADMIN_EMAIL":    "root@example.com",
		"ADMIN_PASSWORD": "supersecret",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != "9090" || cfg.SessionTTL != 90*time.Minute || cfg.CookieSecure || cfg.BcryptCost != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected redis addr, got %q", cfg.RedisAddr)
	}
	if !cfg.AdminConfigured() {
		t.Fatal("expected admin bootstrap to be configured")
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "SESSION_SECRET"},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "at least 32"},
		{"bad ttl", map[string]string{"SESSION_SECRET": testSecret, "SESSION_TTL": "soon"}, "SESSION_TTL"},
		{"negative ttl", map[string]string{"SESSION_SECRET": testSecret, "SESSION_TTL": "-1h"}, "SESSION_TTL"},
		{"bad cost", map[string]string{"SESSION_SECRET": testSecret, "BCRYPT_COST": "abc"}, "BCRYPT_COST"},
		{"cost out of range", map[string]string{"SESSION_SECRET": testSecret, "BCRYPT_COST": "20"}, "between 4 and 14"},
		{"bad log level", map[string]string{"SESSION_SECRET": testSecret, "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.FromEnv(envFrom(tc.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
