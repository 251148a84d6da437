package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STAFF_API_BASE_URL", "http://api.local/api/admin/")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("STAFF_API_TIMEOUT_SECONDS", "")
	t.Setenv("SESSION_ISSUE_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Upstream.BaseURL != "http://api.local/api/admin" {
		t.Fatalf("base url = %q, trailing slash should be trimmed", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout() != 0 {
		t.Fatalf("upstream timeout = %s, want none", cfg.Upstream.Timeout())
	}
	if cfg.Session.TTL() != 8*time.Hour {
		t.Fatalf("session ttl = %s", cfg.Session.TTL())
	}
	if cfg.Session.CookieName != "session_id" {
		t.Fatalf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Session.IssueEnabled {
		t.Fatal("session issuing should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PANEL_PORT", "9100")
	t.Setenv("STAFF_API_TIMEOUT_SECONDS", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("SESSION_ISSUE_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Panel.Addr() != "0.0.0.0:9100" {
		t.Fatalf("panel addr = %q", cfg.Panel.Addr())
	}
	if cfg.Upstream.Timeout() != 5*time.Second {
		t.Fatalf("upstream timeout = %s", cfg.Upstream.Timeout())
	}
	if cfg.Postgres.RunMigrations {
		t.Fatal("migrations should be disabled")
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d, invalid values fall back to default", cfg.Auth.BcryptCost)
	}
	if !cfg.Session.IssueEnabled {
		t.Fatal("session issuing should be enabled")
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}
