package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ModelLimits holds the shared free-tier budget for one upstream model:
// requests per UTC day and requests per minute. A value of zero or below
// means unlimited for that dimension.
type ModelLimits struct {
	RPD int `json:"rpd"`
	RPM int `json:"rpm"`
}

type Config struct {
	Host string
	Port string

	GeminiAPIKey  string
	GeminiBaseURL string

	AllowedModels    []string
	MarkcraftModels  []string
	FlashcraftModels []string
	ModelLimits      map[string]ModelLimits

	SiteTotalRPD int
	SiteTotalRPM int

	AllowedOrigins []string

	RateLimit       int
	RateLimitWindow time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AllowedModels:    SplitCSV(getEnv("GEMINI_ALLOWED_MODELS", "gemini-2.5-flash")),
		MarkcraftModels:  SplitCSV(getEnv("GEMINI_MARKCRAFT_MODELS", "gemini-2.5-flash,gemini-2.5-flash-lite,gemini-3-flash")),
		FlashcraftModels: SplitCSV(getEnv("GEMINI_FLASHCRAFT_MODELS", "gemini-2.5-flash,gemini-2.5-flash-lite,gemini-3-flash")),
		ModelLimits:      ParseModelLimits(os.Getenv("GEMINI_MODEL_LIMITS_JSON")),
		SiteTotalRPD:     getEnvInt("SITE_TOTAL_RPD_LIMIT", 0),
		SiteTotalRPM:     getEnvInt("SITE_TOTAL_RPM_LIMIT", 0),
		AllowedOrigins:   SplitCSV(os.Getenv("ALLOWED_ORIGINS")),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		PostgresUser:     getEnv("POSTGRES_USER", "flashcraft"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "flashcraft"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	if len(cfg.AllowedModels) == 0 {
		cfg.AllowedModels = []string{"gemini-2.5-flash"}
	}

	return cfg
}

func (c *Config) ModelAllowed(model string) bool {
	for _, m := range c.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// SiteCapEnabled reports whether the optional site-wide aggregate cap is
// configured on either dimension.
func (c *Config) SiteCapEnabled() bool {
	return c.SiteTotalRPD > 0 || c.SiteTotalRPM > 0
}

func SplitCSV(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseModelLimits decodes the GEMINI_MODEL_LIMITS_JSON override map, e.g.
// {"gemini-2.5-flash":{"rpd":20,"rpm":5}}. Malformed input yields an empty
// map rather than an error; negative limits are clamped to zero.
func ParseModelLimits(raw string) map[string]ModelLimits {
	limits := make(map[string]ModelLimits)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return limits
	}

	var data map[string]ModelLimits
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return limits
	}
	for model, l := range data {
		if l.RPD < 0 {
			l.RPD = 0
		}
		if l.RPM < 0 {
			l.RPM = 0
		}
		limits[model] = l
	}
	return limits
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
