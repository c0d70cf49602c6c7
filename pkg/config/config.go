package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the console.
type Config struct {
	ServerPort                     string `mapstructure:"SERVER_PORT"`
	LogLevel                       string `mapstructure:"LOG_LEVEL"`
	BackendURL                     string `mapstructure:"BACKEND_URL"`
	BackendTimeoutSeconds          int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`
	ExportTimeoutSeconds           int    `mapstructure:"EXPORT_TIMEOUT_SECONDS"`
	PollIntervalSeconds            int    `mapstructure:"POLL_INTERVAL_SECONDS"`
	CheckFailedRefreshDelaySeconds int    `mapstructure:"CHECK_FAILED_REFRESH_DELAY_SECONDS"`
	DefaultPageSize                int    `mapstructure:"DEFAULT_PAGE_SIZE"`
	NoticeTTLSeconds               int    `mapstructure:"NOTICE_TTL_SECONDS"`
	ExportLabel                    string `mapstructure:"EXPORT_LABEL"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine, the environment alone is enough in production.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 30)
	v.SetDefault("EXPORT_TIMEOUT_SECONDS", 300)
	v.SetDefault("POLL_INTERVAL_SECONDS", 10)
	v.SetDefault("CHECK_FAILED_REFRESH_DELAY_SECONDS", 2)
	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("NOTICE_TTL_SECONDS", 5)
	v.SetDefault("EXPORT_LABEL", "supplier-data")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting the console cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q", c.BackendURL)
	}
	if c.BackendTimeoutSeconds <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive, got %d", c.BackendTimeoutSeconds)
	}
	if c.ExportTimeoutSeconds <= 0 {
		return fmt.Errorf("EXPORT_TIMEOUT_SECONDS must be positive, got %d", c.ExportTimeoutSeconds)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.CheckFailedRefreshDelaySeconds < 0 {
		return fmt.Errorf("CHECK_FAILED_REFRESH_DELAY_SECONDS must not be negative, got %d", c.CheckFailedRefreshDelaySeconds)
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.NoticeTTLSeconds <= 0 {
		return fmt.Errorf("NOTICE_TTL_SECONDS must be positive, got %d", c.NoticeTTLSeconds)
	}
	return nil
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// ExportTimeout bounds a whole spreadsheet download, body included.
func (c *Config) ExportTimeout() time.Duration {
	return time.Duration(c.ExportTimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) CheckFailedRefreshDelay() time.Duration {
	return time.Duration(c.CheckFailedRefreshDelaySeconds) * time.Second
}

func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLSeconds) * time.Second
}
