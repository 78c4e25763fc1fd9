package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Data sources, views and database drivers understood by Validate.
const (
	SourceHTTP = "http"
	SourceMock = "mock"

	ViewTerminal = "terminal"
	ViewWindow   = "window"
	ViewHeadless = "headless"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	DataSource string `yaml:"data_source"`
	Backend    struct {
		BaseURL        string `yaml:"base_url"`
		DataPath       string `yaml:"data_path"`
		UpdatePath     string `yaml:"update_path"`
		TimeoutSeconds *int   `yaml:"timeout_seconds"`
	} `yaml:"backend"`
	Schedule struct {
		PollCron     string `yaml:"poll_cron"`
		FetchOnStart *bool  `yaml:"fetch_on_start"`
	} `yaml:"schedule"`
	Display struct {
		View     string `yaml:"view"`
		Timezone string `yaml:"timezone"`
		ChartPNG string `yaml:"chart_png"`
		LogFile  string `yaml:"log_file"`
	} `yaml:"display"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
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

	// Environment variable overrides
	if v := os.Getenv("ORBWATCH_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("ORBWATCH_DATA_SOURCE"); v != "" {
		cfg.DataSource = v
	}
	if v := os.Getenv("ORBWATCH_VIEW"); v != "" {
		cfg.Display.View = v
	}
	if v := os.Getenv("ORBWATCH_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("ORBWATCH_POLL"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("ORBWATCH_TIMEZONE"); v != "" {
		cfg.Display.Timezone = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
		if cfg.Database.Driver == "" {
			cfg.Database.Driver = DriverSQLite
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
		if cfg.Database.Driver == "" {
			cfg.Database.Driver = DriverPostgres
		}
	}

	// Defaults
	if cfg.DataSource == "" {
		cfg.DataSource = SourceHTTP
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:80"
	}
	if cfg.Backend.DataPath == "" {
		cfg.Backend.DataPath = "/api/data"
	}
	if cfg.Backend.UpdatePath == "" {
		cfg.Backend.UpdatePath = "/api/update"
	}
	if cfg.Backend.TimeoutSeconds == nil {
		timeout := 30
		cfg.Backend.TimeoutSeconds = &timeout
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "@every 120s"
	}
	if cfg.Schedule.FetchOnStart == nil {
		on := true
		cfg.Schedule.FetchOnStart = &on
	}
	if cfg.Display.View == "" {
		cfg.Display.View = ViewTerminal
	}
	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "Local"
	}
	if cfg.Display.LogFile == "" {
		cfg.Display.LogFile = "orbwatch.log"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceHTTP:
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
		}
	case SourceMock:
	default:
		return fmt.Errorf("data_source must be %q or %q, got %q", SourceHTTP, SourceMock, c.DataSource)
	}

	switch c.Display.View {
	case ViewTerminal, ViewWindow, ViewHeadless:
	default:
		return fmt.Errorf("display.view must be terminal, window or headless, got %q", c.Display.View)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Backend.TimeoutSeconds != nil && *c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must not be negative")
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	// Commands are matched against the numeric chat id of incoming messages,
	// so @channel usernames would silence them.
	if c.Telegram.ChatID != "" {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("telegram.chat_id must be a numeric chat id, got %q", c.Telegram.ChatID)
		}
	}

	switch c.Database.Driver {
	case "":
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	return nil
}

// Timeout is the backend request timeout; zero disables it.
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutSeconds == nil {
		return 0
	}
	return time.Duration(*c.Backend.TimeoutSeconds) * time.Second
}

// Location is the display time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}

// TelegramEnabled reports whether chat alerts and commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
