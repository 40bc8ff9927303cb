package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EMAIL_PROVIDER", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "none" {
		t.Fatalf("expected email provider none by default, got %s", cfg.EmailProvider)
	}
	if cfg.RemindersEnabled {
		t.Fatalf("expected reminders disabled by default")
	}
	if cfg.ReminderInterval != 15*time.Minute {
		t.Fatalf("expected default reminder interval, got %s", cfg.ReminderInterval)
	}
	if cfg.ReminderWindow != 24*time.Hour {
		t.Fatalf("expected default reminder window, got %s", cfg.ReminderWindow)
	}
	if cfg.BookingRateBurst != 5 {
		t.Fatalf("expected default booking burst, got %d", cfg.BookingRateBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("STAFF_JWT_SECRET", "topsecret")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://salon.example, https://admin.salon.example")
	t.Setenv("REMINDERS_ENABLED", "true")
	t.Setenv("REMINDER_INTERVAL", "5m")
	t.Setenv("BOOKING_RATE_LIMIT", "0.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.StaffJWTSecret != "topsecret" {
		t.Fatalf("expected staff jwt secret override")
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected email provider normalized, got %s", cfg.EmailProvider)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.salon.example" {
		t.Fatalf("expected parsed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RemindersEnabled {
		t.Fatalf("expected reminders enabled")
	}
	if cfg.ReminderInterval != 5*time.Minute {
		t.Fatalf("expected reminder interval override, got %s", cfg.ReminderInterval)
	}
	if cfg.BookingRateLimit != 0.5 {
		t.Fatalf("expected booking rate override, got %f", cfg.BookingRateLimit)
	}
}
