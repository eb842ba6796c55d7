package config

import (
	"testing"
	"time"
)

func TestValidate_DevWithoutSecret(t *testing.T) {
	cfg := &Config{Env: "development", RequestTimeout: 30 * time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", RequestTimeout: 30 * time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: "too-short", RequestTimeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short JWT_SECRET")
	}
}

func TestValidate_RequestTimeout(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero REQUEST_TIMEOUT")
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("expected IsDev for development")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("did not expect IsDev for production")
	}
}
