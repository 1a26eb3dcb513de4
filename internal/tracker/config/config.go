package config

import (
	"time"

	"golang-portfolio-tracker/pkg/config"
)

// Store selects and tunes the persistence backend for stock records.
type Store struct {
	// Backend is one of "redis", "postgres" or "memory".
	Backend string `mapstructure:"backend"`
	// KeyPrefix namespaces the Redis hash holding the portfolio.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// MarketData holds the configuration for the market data provider.
type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	SymbolSuffix        string        `mapstructure:"symbol_suffix"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
}

// Monitor holds threshold-monitor configuration.
type Monitor struct {
	// Schedule is a robfig/cron expression; "@every 1h" mirrors the hourly
	// poll of the first version of this tool.
	Schedule             string        `mapstructure:"schedule"`
	MaxConcurrentFetches int           `mapstructure:"max_concurrent_fetches"`
	CycleTimeout         time.Duration `mapstructure:"cycle_timeout"`
}

// Email holds SMTP alert-transport configuration.
type Email struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Telegram holds Telegram alert-transport configuration.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Alert groups the alert transports.
type Alert struct {
	Email    Email    `mapstructure:"email"`
	Telegram Telegram `mapstructure:"telegram"`
}

// Chart holds chart rendering configuration.
type Chart struct {
	Interval       string `mapstructure:"interval"`
	Range          string `mapstructure:"range"`
	OverlayPeriods []int  `mapstructure:"overlay_periods"`
	OutputDir      string `mapstructure:"output_dir"`
}

// Config holds the full configuration for the tracker service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Store      Store           `mapstructure:"store"`
	MarketData MarketData      `mapstructure:"market_data"`
	Monitor    Monitor         `mapstructure:"monitor"`
	Alert      Alert           `mapstructure:"alert"`
	Chart      Chart           `mapstructure:"chart"`
}

// Load loads the tracker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "redis"
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = "portfolio"
	}
	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.MarketData.RequestTimeout <= 0 {
		cfg.MarketData.RequestTimeout = 30 * time.Second
	}
	if cfg.MarketData.MaxRequestPerMinute <= 0 {
		cfg.MarketData.MaxRequestPerMinute = 60
	}
	if cfg.MarketData.QuoteCacheTTL <= 0 {
		cfg.MarketData.QuoteCacheTTL = time.Minute
	}
	if cfg.Monitor.Schedule == "" {
		cfg.Monitor.Schedule = "@every 1h"
	}
	if cfg.Monitor.MaxConcurrentFetches <= 0 {
		cfg.Monitor.MaxConcurrentFetches = 5
	}
	if cfg.Monitor.CycleTimeout <= 0 {
		cfg.Monitor.CycleTimeout = 5 * time.Minute
	}
	if cfg.Chart.Interval == "" {
		cfg.Chart.Interval = "5m"
	}
	if cfg.Chart.Range == "" {
		cfg.Chart.Range = "1d"
	}
	if len(cfg.Chart.OverlayPeriods) == 0 {
		cfg.Chart.OverlayPeriods = []int{20, 50}
	}
	if cfg.Chart.OutputDir == "" {
		cfg.Chart.OutputDir = "charts"
	}
}
