package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"NewsPulse/internal/domain"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "NEWSPULSE_CONFIG"
	queryEnv          = "NEWSPULSE_QUERY"
	newsAPIKeyEnv     = "NEWS_API_KEY"
	scorerAPIKeyEnv   = "SCORER_API_KEY"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"

	maxPageSize = 100
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Search        SearchConfig       `yaml:"search"`
	Scorer        ScorerConfig       `yaml:"scorer"`
	Store         StoreConfig        `yaml:"store"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SearchConfig describes the news search API and the rolling window to collect.
type SearchConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	APIKey            string        `yaml:"apiKey"`
	Query             string        `yaml:"query"`
	SearchIn          string        `yaml:"searchIn"`
	Language          string        `yaml:"language"`
	SortBy            string        `yaml:"sortBy"`
	WindowDays        int           `yaml:"windowDays"`
	PageSize          int           `yaml:"pageSize"`
	MaxPages          int           `yaml:"maxPages"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Concurrency       int           `yaml:"concurrency"`
	MaxRetries        int           `yaml:"maxRetries"`
}

// ScorerConfig picks the sentiment backend; "remote" needs an inference URL.
type ScorerConfig struct {
	Kind         string        `yaml:"kind"`
	InferenceURL string        `yaml:"inferenceUrl"`
	APIKey       string        `yaml:"apiKey"`
	Timeout      time.Duration `yaml:"timeout"`
}

// StoreConfig points at the CSV summary table read by the dashboard.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig describes the optional Postgres mirror of the summary table.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// SchedulerConfig defines how often the pipeline runs in schedule mode.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIURL   string `yaml:"apiUrl"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig sets where the Prometheus textfile is written; empty disables export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file without overriding
// variables already set in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads YAML configuration (path, or $NEWSPULSE_CONFIG when empty) on top of
// the defaults and applies environment overrides. It does not validate.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every invalid setting as a ConfigurationError.
func (c Config) Validate() error {
	var errs []error
	invalid := func(field, reason string) {
		errs = append(errs, &domain.ConfigurationError{Field: field, Reason: reason})
	}

	if strings.TrimSpace(c.Search.APIKey) == "" {
		invalid("search.apiKey", newsAPIKeyEnv+" is not set")
	}
	if strings.TrimSpace(c.Search.Query) == "" {
		invalid("search.query", "must not be empty")
	}
	if c.Search.Endpoint == "" {
		invalid("search.endpoint", "must not be empty")
	}
	if c.Search.WindowDays < 1 {
		invalid("search.windowDays", "must be at least 1")
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > maxPageSize {
		invalid("search.pageSize", fmt.Sprintf("must be between 1 and %d", maxPageSize))
	}
	if c.Search.MaxPages < 1 {
		invalid("search.maxPages", "must be at least 1")
	}
	if c.Search.Timeout <= 0 {
		invalid("search.timeout", "must be positive")
	}
	if c.Search.RequestsPerSecond <= 0 {
		invalid("search.requestsPerSecond", "must be positive")
	}
	if c.Search.Concurrency < 1 {
		invalid("search.concurrency", "must be at least 1")
	}
	if c.Search.MaxRetries < 0 {
		invalid("search.maxRetries", "must not be negative")
	}

	switch c.Scorer.Kind {
	case "lexicon":
	case "remote":
		if c.Scorer.InferenceURL == "" {
			invalid("scorer.inferenceUrl", "required for the remote scorer")
		}
	default:
		invalid("scorer.kind", fmt.Sprintf("unknown scorer %q", c.Scorer.Kind))
	}

	if strings.TrimSpace(c.Store.Path) == "" {
		invalid("store.path", "must not be empty")
	}
	if c.Scheduler.Interval <= 0 {
		invalid("scheduler.interval", "must be positive")
	}

	tg := c.Notifications.Telegram
	if (tg.BotToken == "") != (tg.ChatID == "") {
		invalid("notifications.telegram", "botToken and chatId must be set together")
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}

	if v := os.Getenv(queryEnv); v != "" {
		c.Search.Query = v
	}

	if v := os.Getenv(scorerAPIKeyEnv); v != "" {
		c.Scorer.APIKey = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() error {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return &domain.ConfigurationError{Field: "scheduler.timezone", Reason: err.Error()}
	}
	c.Scheduler.location = loc
	return nil
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Search: SearchConfig{
			Endpoint:          "https://newsapi.org/v2/everything",
			Query:             "Sweden",
			SearchIn:          "title,description",
			Language:          "en",
			SortBy:            "popularity",
			WindowDays:        5,
			PageSize:          maxPageSize,
			MaxPages:          1,
			Timeout:           20 * time.Second,
			RequestsPerSecond: 1,
			Concurrency:       2,
			MaxRetries:        3,
		},
		Scorer:    ScorerConfig{Kind: "lexicon", Timeout: 15 * time.Second},
		Store:     StoreConfig{Path: "data/news_summary.csv"},
		Database:  DatabaseConfig{Table: "daily_sentiment_summary"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: time.UTC},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIURL: "https://api.telegram.org"},
		},
	}
}
