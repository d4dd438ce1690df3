package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_TEXT_MODEL", "")
	t.Setenv("VIDEO_POLL_INTERVAL_SECONDS", "")
	t.Setenv("VIDEO_POLL_MULTIPLIER", "")
	t.Setenv("VIDEO_POLL_MAX_ATTEMPTS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.GeminiTextModel != "gemini-2.5-flash" {
		t.Fatalf("GeminiTextModel = %q", cfg.GeminiTextModel)
	}
	if cfg.VideoPollInterval != 8*time.Second {
		t.Fatalf("VideoPollInterval = %s, want 8s", cfg.VideoPollInterval)
	}
	if cfg.VideoPollMultiplier != 1.5 {
		t.Fatalf("VideoPollMultiplier = %v, want 1.5", cfg.VideoPollMultiplier)
	}
	if cfg.VideoPollMaxAttempts != 40 {
		t.Fatalf("VideoPollMaxAttempts = %d, want 40", cfg.VideoPollMaxAttempts)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSOrigins = %#v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  AIzaSyTestKey0123456789  ")
	t.Setenv("VIDEO_POLL_INTERVAL_SECONDS", "2")
	t.Setenv("VIDEO_POLL_MULTIPLIER", "1")
	t.Setenv("VIDEO_POLL_MAX_INTERVAL_SECONDS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ouroz.ma, https://admin.ouroz.ma ,")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "AIzaSyTestKey0123456789" {
		t.Fatalf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.VideoPollInterval != 2*time.Second || cfg.VideoPollMaxInterval != 2*time.Second {
		t.Fatalf("poll intervals = %s/%s", cfg.VideoPollInterval, cfg.VideoPollMaxInterval)
	}
	if cfg.VideoPollMultiplier != 1 {
		t.Fatalf("VideoPollMultiplier = %v, want 1", cfg.VideoPollMultiplier)
	}
	expected := []string{"https://ouroz.ma", "https://admin.ouroz.ma"}
	if len(cfg.CORSOrigins) != len(expected) {
		t.Fatalf("CORSOrigins = %#v, want %#v", cfg.CORSOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSOrigins[i] != origin {
			t.Fatalf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], origin)
		}
	}
	if !cfg.TracingEnabled {
		t.Fatal("expected tracing enabled")
	}
}

func TestLoadConfigRejectsInvalidPollPolicy(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero attempts", key: "VIDEO_POLL_MAX_ATTEMPTS", value: "0"},
		{name: "shrinking multiplier", key: "VIDEO_POLL_MULTIPLIER", value: "0.5"},
		{name: "max below interval", key: "VIDEO_POLL_MAX_INTERVAL_SECONDS", value: "1"},
		{name: "zero timeout", key: "VIDEO_TIMEOUT_SECONDS", value: "0"},
		{name: "video outlasts write timeout", key: "VIDEO_TIMEOUT_SECONDS", value: "660"},
		{name: "thinking budget overflows int32", key: "GEMINI_THINKING_BUDGET", value: "4294967296"},
		{name: "negative thinking budget", key: "GEMINI_THINKING_BUDGET", value: "-5"},
		{name: "zero thinking budget", key: "GEMINI_THINKING_BUDGET", value: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadConfigAcceptsDynamicThinkingAndProxies(t *testing.T) {
	t.Setenv("GEMINI_THINKING_BUDGET", "-1")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	t.Setenv("VIDEO_TIMEOUT_SECONDS", "100")
	t.Setenv("HTTP_WRITE_TIMEOUT_SECONDS", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ThinkingBudget != -1 {
		t.Fatalf("ThinkingBudget = %d, want -1", cfg.ThinkingBudget)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.0.2.1" {
		t.Fatalf("TrustedProxies = %#v", cfg.TrustedProxies)
	}
}
