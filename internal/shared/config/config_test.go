package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("expected default model, got %s", cfg.GeminiModel)
	}
	if cfg.RequestsPerMinute != 60 {
		t.Fatalf("expected 60 requests per minute, got %d", cfg.RequestsPerMinute)
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("expected 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Fatalf("expected 2s retry delay, got %s", cfg.RetryDelay)
	}
	if cfg.MaxFileSizeBytes != 10<<20 {
		t.Fatalf("expected 10MB max file size, got %d", cfg.MaxFileSizeBytes)
	}
	if !cfg.UseCache {
		t.Fatalf("expected caching enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("REQUESTS_PER_MINUTE", "30")
	t.Setenv("USE_CACHE", "false")
	t.Setenv("RETRY_DELAY", "500ms")

	cfg := Load()

	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Fatalf("expected model override, got %s", cfg.GeminiModel)
	}
	if cfg.RequestsPerMinute != 30 {
		t.Fatalf("expected 30 requests per minute, got %d", cfg.RequestsPerMinute)
	}
	if cfg.UseCache {
		t.Fatalf("expected caching disabled")
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms retry delay, got %s", cfg.RetryDelay)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("REQUESTS_PER_MINUTE", "-5")
	t.Setenv("RETRY_DELAY", "soon")

	cfg := Load()

	if cfg.RequestsPerMinute != 60 {
		t.Fatalf("expected fallback to default budget, got %d", cfg.RequestsPerMinute)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Fatalf("expected fallback to default delay, got %s", cfg.RetryDelay)
	}
}
