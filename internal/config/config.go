package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"langcast-bot/internal/languages"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	BotToken        string
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string

	TranslatorAPIKey  string
	TranslatorBaseURL string
	TranslatorModel   string
	TranslatorTimeout time.Duration

	Languages       *languages.Table
	ReverseLanguage languages.Language

	BroadcastHour   int
	BroadcastMinute int
	Location        *time.Location

	AnnouncementIndexURL   string
	AnnouncementDateLayout string

	ConfigureCommand string
	BroadcastCommand string
	DefaultLocale    string
}

const (
	defaultLanguages       = "en:英文,ja:日文,ko:韓文,vi:越南文,th:泰文,id:印尼文"
	defaultReverseLanguage = "zh-TW:繁體中文"
)

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return parse(getEnv)
}

// parse builds a Config from a lookup function so tests can avoid the process environment.
func parse(env func(key, defaultValue string) string) (*Config, error) {
	debug, _ := strconv.ParseBool(env("DEBUG", "false"))

	timeout, err := time.ParseDuration(env("TRANSLATOR_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid TRANSLATOR_TIMEOUT %q", env("TRANSLATOR_TIMEOUT", "30s"))
	}

	table, err := languages.ParseTable(env("SUPPORTED_LANGUAGES", defaultLanguages))
	if err != nil {
		return nil, fmt.Errorf("invalid SUPPORTED_LANGUAGES: %w", err)
	}
	reverse, err := languages.ParseLanguage(env("REVERSE_LANGUAGE", defaultReverseLanguage))
	if err != nil {
		return nil, fmt.Errorf("invalid REVERSE_LANGUAGE: %w", err)
	}

	hour, minute, err := ParseTimeOfDay(env("BROADCAST_TIME", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid BROADCAST_TIME: %w", err)
	}
	loc, err := time.LoadLocation(env("TIMEZONE", "Asia/Taipei"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		AppEnv:          env("APP_ENV", "development"),
		Debug:           debug,
		Version:         env("VERSION", "dev"),
		BotToken:        env("TELEGRAM_BOT_TOKEN", ""),
		SentryDSN:       env("SENTRY_DSN", ""),
		MongoDBURI:      env("MONGODB_URI", ""),
		MongoDBDatabase: env("MONGODB_DATABASE", ""),

		TranslatorAPIKey:  env("TRANSLATOR_API_KEY", ""),
		TranslatorBaseURL: strings.TrimRight(env("TRANSLATOR_BASE_URL", "https://api.openai.com/v1"), "/"),
		TranslatorModel:   env("TRANSLATOR_MODEL", "gpt-4o-mini"),
		TranslatorTimeout: timeout,

		Languages:       table,
		ReverseLanguage: reverse,

		BroadcastHour:   hour,
		BroadcastMinute: minute,
		Location:        loc,

		AnnouncementIndexURL:   env("ANNOUNCEMENT_INDEX_URL", ""),
		AnnouncementDateLayout: env("ANNOUNCEMENT_DATE_LAYOUT", "2006/01/02"),

		ConfigureCommand: env("CONFIGURE_COMMAND", "/configure"),
		BroadcastCommand: env("BROADCAST_COMMAND", "/announce"),
		DefaultLocale:    env("DEFAULT_LOCALE", "zh-TW"),
	}

	// Basic validation for essential variables
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBDatabase == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required")
	}
	if cfg.TranslatorAPIKey == "" {
		return nil, fmt.Errorf("TRANSLATOR_API_KEY is required")
	}
	if cfg.ConfigureCommand == "" || cfg.BroadcastCommand == "" {
		return nil, fmt.Errorf("CONFIGURE_COMMAND and BROADCAST_COMMAND must not be empty")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.AnnouncementIndexURL == "" {
		log.Println("Warning: ANNOUNCEMENT_INDEX_URL is not set. Announcement broadcasts will find nothing.")
	}

	return cfg, nil
}

// ParseTimeOfDay parses "HH:MM" in 24h format.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("time of day %q is not HH:MM: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
