package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// Staff auth
	StaffJWTSecret string

	// Public booking endpoint protection
	BookingRateLimit float64
	BookingRateBurst int

	CORSAllowedOrigins []string

	// Redis (contact settings store)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email notifications
	EmailProvider    string
	SendGridAPIKey   string
	NotifyFromEmail  string
	NotifyFromName   string
	StaffNotifyEmail string
	AWSRegion        string

	// Reminder worker
	RemindersEnabled bool
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		StaffJWTSecret: getEnv("STAFF_JWT_SECRET", ""),

		BookingRateLimit: getEnvAsFloat("BOOKING_RATE_LIMIT", 1),
		BookingRateBurst: getEnvAsInt("BOOKING_RATE_BURST", 5),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:  getEnv("NOTIFY_FROM_EMAIL", ""),
		NotifyFromName:   getEnv("NOTIFY_FROM_NAME", "Atelier Beauty"),
		StaffNotifyEmail: getEnv("STAFF_NOTIFY_EMAIL", ""),
		AWSRegion:        getEnv("AWS_REGION", "eu-central-1"),

		RemindersEnabled: getEnvAsBool("REMINDERS_ENABLED", false),
		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", 15*time.Minute),
		ReminderWindow:   getEnvAsDuration("REMINDER_WINDOW", 24*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
