// Package config handles configuration loading for the time-tracker service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the time-tracker service.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AllowedEmailDomains restricts registration when non-empty.
	AllowedEmailDomains   []string
	AllowSelfRegistration bool
	RequireAdminApproval  bool

	// RequireGeofence makes clock-in without coordinates fail closed.
	RequireGeofence bool

	MailServer   string
	MailPort     string
	MailUsername string
	MailPassword string

	OrganizationName string
	BaseURL          string

	AllowedOrigins []string
	SwaggerHost    string
	Port           string
	Environment    string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local development matches deployment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnvRequired("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvRequired("DB_USER"),
		DBPassword: getEnvRequired("DB_PASSWORD"),
		DBName:     getEnvRequired("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnvRequired("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		RedisTLS:      parseBool(getEnv("REDIS_TLS", "false")),

		JWTSecret:        getEnvRequired("JWT_SECRET"),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		AllowedEmailDomains:   splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "")),
		AllowSelfRegistration: parseBool(getEnv("ALLOW_SELF_REGISTRATION", "true")),
		RequireAdminApproval:  parseBool(getEnv("REQUIRE_ADMIN_APPROVAL", "false")),

		RequireGeofence: parseBool(getEnv("REQUIRE_GEOFENCE", "false")),

		MailServer:   getEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:     getEnv("MAIL_PORT", "587"),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),

		OrganizationName: getEnv("ORGANIZATION_NAME", "TimeTracker Pro"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8085"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		SwaggerHost:    getEnv("SWAGGER_HOST", ""),
		Port:           getEnv("PORT", "8085"),
		Environment:    getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logrus.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty items.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
