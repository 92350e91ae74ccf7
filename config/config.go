package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Reminder drafting specifics
	Telegram       TelegramConfig
	ReminderStore  ReminderStoreConfig
	GoogleCalendar GoogleCalendarConfig
	Gemini         GeminiConfig
	Draft          DraftConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken        string
	WebhookURL      string
	WebhookSecret   string
	RateLimitPerMin int
}

// ReminderStoreConfig points at the reminder persistence service.
type ReminderStoreConfig struct {
	URL         string
	AccessToken string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// DraftConfig tunes the drafting pipeline itself.
type DraftConfig struct {
	Timezone       string
	DayFirst       bool
	SessionTimeout time.Duration
	MaxLLMItems    int
	IngestPolicy   string // merge | replace | reject
	LLMFallback    bool
	ParseDebug     bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.WebhookSecret = viper.GetString("telegram.webhook_secret")
	cfg.Telegram.RateLimitPerMin = viper.GetInt("telegram.rate_limit_per_min")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	if tgSecret := viper.GetString("telegram_webhook_secret"); tgSecret != "" {
		cfg.Telegram.WebhookSecret = tgSecret
	}

	// Reminder store
	cfg.ReminderStore.URL = viper.GetString("reminder_store.url")
	cfg.ReminderStore.AccessToken = viper.GetString("reminder_store.access_token")
	if storeURL := viper.GetString("reminder_store_url"); storeURL != "" {
		cfg.ReminderStore.URL = storeURL
	}
	if storeToken := viper.GetString("reminder_store_access_token"); storeToken != "" {
		cfg.ReminderStore.AccessToken = storeToken
	}

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Gemini
	cfg.Gemini.APIKey = viper.GetString("gemini.api_key")
	cfg.Gemini.Model = viper.GetString("gemini.model")
	if geminiKey := viper.GetString("gemini_api_key"); geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}

	// Draft pipeline
	cfg.Draft.Timezone = viper.GetString("draft.timezone")
	cfg.Draft.DayFirst = viper.GetBool("draft.day_first")
	cfg.Draft.SessionTimeout = viper.GetDuration("draft.session_timeout")
	cfg.Draft.MaxLLMItems = viper.GetInt("draft.max_llm_items")
	cfg.Draft.IngestPolicy = viper.GetString("draft.ingest_policy")
	cfg.Draft.LLMFallback = viper.GetBool("draft.llm_fallback")
	cfg.Draft.ParseDebug = viper.GetBool("draft.parse_debug")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Draft.IngestPolicy {
	case "merge", "replace", "reject":
	default:
		return fmt.Errorf("invalid draft.ingest_policy %q (want merge, replace or reject)", cfg.Draft.IngestPolicy)
	}
	if cfg.Draft.SessionTimeout <= 0 {
		return fmt.Errorf("draft.session_timeout must be positive, got %s", cfg.Draft.SessionTimeout)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("telegram.rate_limit_per_min", 60)
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("draft.timezone", "Asia/Ho_Chi_Minh")
	viper.SetDefault("draft.day_first", true)
	viper.SetDefault("draft.session_timeout", "10m")
	viper.SetDefault("draft.max_llm_items", 8)
	viper.SetDefault("draft.ingest_policy", "merge")
	viper.SetDefault("draft.llm_fallback", true)
	viper.SetDefault("draft.parse_debug", false)
}
