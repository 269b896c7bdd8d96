package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "REQUEST_TIMEOUT_SECONDS", "LOG_LEVEL", "LOG_FORMAT",
		"USER_AGENT", "OMDB_API_KEY", "OMDB_BASE_URL", "REDIS_URL",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"CACHE_TTL_MINUTES", "CACHE_DISABLED", "DETAIL_CACHE_TTL_HOURS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("log config = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.OMDBAPIKey != "" {
		t.Fatalf("OMDBAPIKey should default empty")
	}
	if cfg.OMDBBaseURL != "https://www.omdbapi.com/" {
		t.Fatalf("OMDBBaseURL = %q", cfg.OMDBBaseURL)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("CacheTTL = %s", cfg.CacheTTL)
	}
	if cfg.CacheDisabled {
		t.Fatalf("CacheDisabled should default false")
	}
	if cfg.DetailCacheTTL != 24*time.Hour {
		t.Fatalf("DetailCacheTTL = %s", cfg.DetailCacheTTL)
	}
	if cfg.OTLPEndpoint != "" {
		t.Fatalf("OTLPEndpoint should default empty")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OMDB_API_KEY", "  abc123  ")
	t.Setenv("CACHE_TTL_MINUTES", "5")
	t.Setenv("CACHE_DISABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318")

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.OMDBAPIKey != "abc123" {
		t.Fatalf("OMDBAPIKey = %q, want trimmed", cfg.OMDBAPIKey)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("CacheTTL = %s", cfg.CacheTTL)
	}
	if !cfg.CacheDisabled {
		t.Fatalf("CacheDisabled should be true")
	}
	if cfg.OTLPEndpoint != "otel-collector:4318" {
		t.Fatalf("OTLPEndpoint = %q", cfg.OTLPEndpoint)
	}
}

func TestGetEnvIntRejectsInvalid(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")
	cfg := LoadConfig()
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %s, want fallback", cfg.RequestTimeout)
	}

	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-3")
	cfg = LoadConfig()
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %s, want fallback for non-positive", cfg.RequestTimeout)
	}
}
