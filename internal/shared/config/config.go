package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	GeminiAPIKey    string
	GeminiModel     string
	Temperature     float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration

	CacheDir string
	UseCache bool

	RequestsPerMinute int
	MaxRetries        int
	RetryDelay        time.Duration

	MaxFileSizeBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature:       float32(getEnvFloat("GEMINI_TEMPERATURE", 0.1)),
		MaxOutputTokens:   int32(getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 2000)),
		RequestTimeout:    getEnvDuration("GEMINI_REQUEST_TIMEOUT", 60*time.Second),
		CacheDir:          getEnv("CACHE_DIR", "./cache"),
		UseCache:          getEnvBool("USE_CACHE", true),
		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 60),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RetryDelay:        getEnvDuration("RETRY_DELAY", 2*time.Second),
		MaxFileSizeBytes:  getEnvInt64("MAX_FILE_SIZE", 10<<20),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 {
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
