package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_SESSION_SECRET", "test-secret")
	t.Setenv("DASHBOARD_HTTP_PORT", "")
	t.Setenv("DASHBOARD_SQLITE_DSN", "")
	t.Setenv("DASHBOARD_SESSION_TTL", "")
	t.Setenv("DASHBOARD_SAVE_DEBOUNCE", "")
	t.Setenv("DASHBOARD_MOCK_LATENCY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SessionSecret != "test-secret" {
		t.Fatalf("unexpected secret %q", cfg.SessionSecret)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected one hour session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.DebounceWindow != time.Second {
		t.Fatalf("expected one second debounce, got %v", cfg.DebounceWindow)
	}
	if cfg.MockLatency != time.Second {
		t.Fatalf("expected one second mock latency, got %v", cfg.MockLatency)
	}
	if cfg.SQLiteDSN == "" {
		t.Fatal("expected a default DSN")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DASHBOARD_SESSION_SECRET", "test-secret")
	t.Setenv("DASHBOARD_HTTP_PORT", "9090")
	t.Setenv("DASHBOARD_SQLITE_DSN", "file:custom.db")
	t.Setenv("DASHBOARD_SESSION_TTL", "30m")
	t.Setenv("DASHBOARD_SAVE_DEBOUNCE", "250ms")
	t.Setenv("DASHBOARD_MOCK_LATENCY", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:custom.db" {
		t.Fatalf("unexpected DSN %q", cfg.SQLiteDSN)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m TTL, got %v", cfg.SessionTTL)
	}
	if cfg.DebounceWindow != 250*time.Millisecond {
		t.Fatalf("expected 250ms debounce, got %v", cfg.DebounceWindow)
	}
	if cfg.MockLatency != 0 {
		t.Fatalf("expected zero latency, got %v", cfg.MockLatency)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DASHBOARD_SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for the missing secret")
	}
	if !strings.Contains(err.Error(), "DASHBOARD_SESSION_SECRET") {
		t.Fatalf("expected the variable to be named, got %v", err)
	}
	if !strings.Contains(err.Error(), "erforderliche Umgebungsvariablen fehlen") {
		t.Fatalf("unexpected message %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("DASHBOARD_SESSION_SECRET", "test-secret")
	t.Setenv("DASHBOARD_HTTP_PORT", "not-a-port")
	t.Setenv("DASHBOARD_SESSION_TTL", "-5m")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for invalid values")
	}
	msg := err.Error()
	if !strings.Contains(msg, "DASHBOARD_HTTP_PORT") || !strings.Contains(msg, "DASHBOARD_SESSION_TTL") {
		t.Fatalf("expected both variables to be named, got %v", err)
	}
	if !strings.Contains(msg, "ungültige Werte für Umgebungsvariablen") {
		t.Fatalf("unexpected message %v", err)
	}
}
