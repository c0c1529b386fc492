package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Record store (Apper)
	ApperBaseURL   string
	ApperProjectID string
	ApperPublicKey string
	ApperTimeoutMS int

	// Redis
	RedisURL string

	// Cache
	ListCacheTTLSeconds int

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Jobs
	MetricsRefreshEnabled bool
	MetricsRefreshCron    string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Phone normalization
	DefaultPhoneRegion string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Record store
		ApperBaseURL:   getEnv("APPER_BASE_URL", "https://records.apper.dev"),
		ApperProjectID: getEnv("APPER_PROJECT_ID", ""),
		ApperPublicKey: getEnv("APPER_PUBLIC_KEY", ""),
		ApperTimeoutMS: getEnvAsInt("APPER_TIMEOUT_MS", 15000),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// Cache
		ListCacheTTLSeconds: getEnvAsInt("LIST_CACHE_TTL_SECONDS", 60),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Jobs
		MetricsRefreshEnabled: getEnvAsBool("METRICS_REFRESH_ENABLED", true),
		MetricsRefreshCron:    getEnv("METRICS_REFRESH_CRON", "0 3 * * *"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("API_ENVIRONMENT", "development")),

		// Phone
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "US"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
