package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string
	HTTPAddr    string
	AutoMigrate bool
	LogLevel    string
	Environment string
	Timezone    *time.Location

	CronSpecSmartReminders string
	CronSpecDueToday       string // Empty disables the plain due-today job

	CurrencyLabel           string
	DefaultRentCycleDays    int
	AdvanceNoticeDays       int
	OverdueWindowDays       int
	SuppressOverdueWhenPaid bool

	RunTimeout          time.Duration
	ReminderConcurrency int

	TelegramToken string // Optional, enables Telegram delivery
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	if cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", false); err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	tzName := getEnv("TIMEZONE", "UTC")
	cfg.Timezone, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.CronSpecSmartReminders = getEnv("CRON_SPEC_SMART_REMINDERS", "0 8 * * *") // 8:00 AM daily
	cfg.CronSpecDueToday = os.Getenv("CRON_SPEC_DUE_TODAY")

	cfg.CurrencyLabel = getEnv("CURRENCY_LABEL", "FCFA")

	if cfg.DefaultRentCycleDays, err = getEnvPositiveInt("DEFAULT_RENT_CYCLE_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.AdvanceNoticeDays, err = getEnvPositiveInt("ADVANCE_NOTICE_DAYS", 14); err != nil {
		return nil, err
	}
	if cfg.OverdueWindowDays, err = getEnvPositiveInt("OVERDUE_WINDOW_DAYS", 15); err != nil {
		return nil, err
	}
	if cfg.SuppressOverdueWhenPaid, err = getEnvBool("SUPPRESS_OVERDUE_WHEN_PAID", false); err != nil {
		return nil, fmt.Errorf("invalid SUPPRESS_OVERDUE_WHEN_PAID: %w", err)
	}

	if cfg.RunTimeout, err = getEnvDuration("RUN_TIMEOUT", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid RUN_TIMEOUT: %w", err)
	}
	if cfg.ReminderConcurrency, err = getEnvPositiveInt("REMINDER_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, n)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}
