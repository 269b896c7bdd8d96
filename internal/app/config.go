package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	UserAgent      string
	OMDBAPIKey     string
	OMDBBaseURL    string
	RedisURL       string
	OTLPEndpoint   string
	CacheTTL       time.Duration
	CacheDisabled  bool
	DetailCacheTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:      getEnv("USER_AGENT", "filmgrid-search/1.0"),
		OMDBAPIKey:     strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		OMDBBaseURL:    getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		RedisURL:       getEnv("REDIS_URL", ""),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_MINUTES", 10)) * time.Minute,
		CacheDisabled:  getEnvBool("CACHE_DISABLED", false),
		DetailCacheTTL: time.Duration(getEnvInt("DETAIL_CACHE_TTL_HOURS", 24)) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
