package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GEMINI_MODEL_ID", "")
	t.Setenv("SECRETS_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GeminiModelID != "gemini-1.5-flash-8b" {
		t.Fatalf("expected default model, got %s", cfg.GeminiModelID)
	}
	if cfg.SecretsProvider != "auto" {
		t.Fatalf("expected auto secrets provider, got %s", cfg.SecretsProvider)
	}
	if cfg.CredentialSecretID != "GOOGLE_API_KEY" {
		t.Fatalf("expected default secret id, got %s", cfg.CredentialSecretID)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected transcript mirror disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.TranscriptTTL != 24*time.Hour {
		t.Fatalf("expected default transcript ttl, got %s", cfg.TranscriptTTL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_MODEL_ID", "gemini-2.0-flash")
	t.Setenv("SECRETS_PROVIDER", " AWS ")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("TRANSCRIPT_TTL", "45m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://billcut.in, https://app.billcut.in")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.GeminiModelID != "gemini-2.0-flash" {
		t.Fatalf("expected model override, got %s", cfg.GeminiModelID)
	}
	if cfg.SecretsProvider != "aws" {
		t.Fatalf("expected normalized secrets provider, got %s", cfg.SecretsProvider)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis tls enabled")
	}
	if cfg.TranscriptTTL != 45*time.Minute {
		t.Fatalf("expected ttl override, got %s", cfg.TranscriptTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://app.billcut.in" {
		t.Fatalf("expected cors origins parsed, got %v", cfg.CORSAllowedOrigins)
	}
}
