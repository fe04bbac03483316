package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/window"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// CronParser matches the scheduler's cron.WithSeconds parser.
var CronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken    string        `yaml:"bot_token"`
		ChatID      string        `yaml:"chat_id"`
		APIBase     string        `yaml:"api_base"`
		MinInterval *time.Duration `yaml:"min_interval"` // unset means 1s; 0s disables pacing
	} `yaml:"telegram"`
	DataSource struct {
		URL         string        `yaml:"url"`
		HistorySize int           `yaml:"history_size"`
		Timeout     time.Duration `yaml:"timeout"`
		Mock        bool          `yaml:"mock"`
	} `yaml:"data_source"`
	Schedule struct {
		PollCron string `yaml:"poll_cron"`
	} `yaml:"schedule"`
	Signal struct {
		WindowSize      int  `yaml:"window_size"`
		MinObservations int  `yaml:"min_observations"`
		SuppressRepeats bool `yaml:"suppress_repeats"`
	} `yaml:"signal"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FEED_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("FEED_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DataSource.Mock = b
		}
	}
	if v := os.Getenv("POLL_CRON"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("SUPPRESS_REPEATS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Signal.SuppressRepeats = b
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Telegram.APIBase == "" {
		cfg.Telegram.APIBase = "https://api.telegram.org"
	}
	if cfg.Telegram.MinInterval == nil {
		d := time.Second
		cfg.Telegram.MinInterval = &d
	}
	if cfg.DataSource.URL == "" {
		cfg.DataSource.URL = collector.DefaultFeedURL
	}
	if cfg.DataSource.HistorySize == 0 {
		cfg.DataSource.HistorySize = 50
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "@every 60s"
	}
	if cfg.Signal.WindowSize == 0 {
		cfg.Signal.WindowSize = 50
	}
	if cfg.Signal.MinObservations == 0 {
		cfg.Signal.MinObservations = 20
	}

	return cfg, nil
}

// NotifyInterval returns the minimum spacing between Telegram messages.
func (c *Config) NotifyInterval() time.Duration {
	if c.Telegram.MinInterval == nil {
		return time.Second
	}
	return *c.Telegram.MinInterval
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if !c.DataSource.Mock && c.DataSource.URL == "" {
		return fmt.Errorf("data_source.url is required")
	}
	if c.DataSource.HistorySize <= 0 {
		return fmt.Errorf("data_source.history_size must be positive")
	}
	if need := calculator.DefaultParams.MinObservations(); c.Signal.MinObservations < need {
		return fmt.Errorf("signal.min_observations must be at least %d", need)
	}
	if c.Signal.WindowSize > window.DefaultCapacity {
		return fmt.Errorf("signal.window_size (%d) must not exceed %d", c.Signal.WindowSize, window.DefaultCapacity)
	}
	if c.Signal.WindowSize < c.Signal.MinObservations {
		return fmt.Errorf("signal.window_size (%d) must not be below signal.min_observations (%d)",
			c.Signal.WindowSize, c.Signal.MinObservations)
	}
	if _, err := CronParser.Parse(c.Schedule.PollCron); err != nil {
		return fmt.Errorf("schedule.poll_cron: %w", err)
	}
	return nil
}
