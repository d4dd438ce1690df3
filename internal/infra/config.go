package infra

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	GeoIPDBPath string

	GeminiAPIKey         string
	GeminiBaseURL        string
	GeminiTextModel      string
	GeminiReasoningModel string
	GeminiImageModel     string
	GeminiEditModel      string
	GeminiVideoModel     string
	GeminiTTSModel       string
	GeminiTTSVoice       string
	ThinkingBudget       int

	VideoPollInterval    time.Duration
	VideoPollMultiplier  float64
	VideoPollMaxInterval time.Duration
	VideoPollMaxAttempts int
	VideoTimeout         time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	MaxBodyBytes     int64
	RateLimitPerMin  int
	CORSOrigins      []string
	TrustedProxies   []string
	DefaultLocale    string
	TracingEnabled   bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GeoIPDBPath: strings.TrimSpace(os.Getenv("GEOIP_DB_PATH")),

		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:        strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		GeminiTextModel:      getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiReasoningModel: getEnv("GEMINI_REASONING_MODEL", "gemini-2.5-pro"),
		GeminiImageModel:     getEnv("GEMINI_IMAGE_MODEL", "gemini-3-pro-image-preview"),
		GeminiEditModel:      getEnv("GEMINI_EDIT_MODEL", "gemini-2.5-flash-image"),
		GeminiVideoModel:     getEnv("GEMINI_VIDEO_MODEL", "veo-3.1-fast-generate-preview"),
		GeminiTTSModel:       getEnv("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		GeminiTTSVoice:       getEnv("GEMINI_TTS_VOICE", "Kore"),
		ThinkingBudget:       getEnvInt("GEMINI_THINKING_BUDGET", 32768),

		VideoPollInterval:    time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 8)),
		VideoPollMultiplier:  getEnvFloat("VIDEO_POLL_MULTIPLIER", 1.5),
		VideoPollMaxInterval: time.Second * time.Duration(getEnvInt("VIDEO_POLL_MAX_INTERVAL_SECONDS", 30)),
		VideoPollMaxAttempts: getEnvInt("VIDEO_POLL_MAX_ATTEMPTS", 40),
		VideoTimeout:         time.Second * time.Duration(getEnvInt("VIDEO_TIMEOUT_SECONDS", 600)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 660)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 25<<20)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustedProxies:   splitList(os.Getenv("TRUSTED_PROXIES")),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		TracingEnabled:   getEnvBool("TRACING_ENABLED", false),
	}

	if cfg.VideoPollInterval <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.VideoPollMultiplier < 1 {
		return nil, fmt.Errorf("VIDEO_POLL_MULTIPLIER must be >= 1")
	}
	if cfg.VideoPollMaxInterval < cfg.VideoPollInterval {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_INTERVAL_SECONDS must be >= VIDEO_POLL_INTERVAL_SECONDS")
	}
	if cfg.VideoPollMaxAttempts <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}
	if cfg.VideoTimeout <= 0 {
		return nil, fmt.Errorf("VIDEO_TIMEOUT_SECONDS must be positive")
	}
	if cfg.HTTPWriteTimeout > 0 && cfg.VideoTimeout >= cfg.HTTPWriteTimeout {
		return nil, fmt.Errorf("VIDEO_TIMEOUT_SECONDS must be below HTTP_WRITE_TIMEOUT_SECONDS")
	}
	if cfg.ThinkingBudget != -1 && (cfg.ThinkingBudget <= 0 || cfg.ThinkingBudget > math.MaxInt32) {
		return nil, fmt.Errorf("GEMINI_THINKING_BUDGET must be -1 (dynamic) or between 1 and %d", math.MaxInt32)
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
