package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("NGO_POSTINGS_AUTH_SECRET", "env-secret-0123456789abcdefghijklmn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Auth.Secret != "env-secret-0123456789abcdefghijklmn" {
		t.Fatalf("secret not read from env")
	}
	if cfg.Auth.AllowAnonymousRead {
		t.Fatal("anonymous read should default to off")
	}
	if cfg.Limits.MaxBodyBytes != 1<<20 {
		t.Fatalf("max body bytes = %d", cfg.Limits.MaxBodyBytes)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("NGO_POSTINGS_AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without auth secret")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("NGO_POSTINGS_AUTH_SECRET", "env-secret-0123456789abcdefghijklmn")
	t.Setenv("NGO_POSTINGS_SERVER_ADDR", ":9090")
	t.Setenv("NGO_POSTINGS_AUTH_ALLOW_ANONYMOUS_READ", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %s, want :9090", cfg.Server.Addr)
	}
	if !cfg.Auth.AllowAnonymousRead {
		t.Fatal("expected anonymous read enabled via env")
	}
}
