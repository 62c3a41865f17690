package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/calculator"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Provider  string `yaml:"provider"` // yahoo, eodhd, alpaca or mock
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"data_source"`
	Metrics struct {
		TradingDays int   `yaml:"trading_days"`
		Horizons    []int `yaml:"horizons"`
	} `yaml:"metrics"`
	Translate struct {
		Target string `yaml:"target"`
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"translate"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		HistoryTTL    time.Duration `yaml:"history_ttl"`
		ProfileTTL    time.Duration `yaml:"profile_ttl"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WarmCron  string   `yaml:"warm_cron"`
		Watchlist []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

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
	if v := os.Getenv("STOCKLENS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" && providerIs(cfg, "eodhd") {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" && providerIs(cfg, "alpaca") {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" && providerIs(cfg, "alpaca") {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Translate.APIKey = v
	}
	if v := os.Getenv("TRANSLATE_TARGET"); v != "" {
		cfg.Translate.Target = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_WARM"); v != "" {
		cfg.Schedule.WarmCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Watchlist = splitList(v)
	}
	if v := os.Getenv("TRADING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.TradingDays = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	cfg.DataSource.Provider = strings.ToLower(strings.TrimSpace(cfg.DataSource.Provider))
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Metrics.TradingDays == 0 {
		cfg.Metrics.TradingDays = calculator.TradingDaysPerYear
	}
	if len(cfg.Metrics.Horizons) == 0 {
		cfg.Metrics.Horizons = append([]int(nil), calculator.DefaultHorizons...)
	}
	if cfg.Cache.HistoryTTL == 0 {
		cfg.Cache.HistoryTTL = 6 * time.Hour
	}
	if cfg.Cache.ProfileTTL == 0 {
		cfg.Cache.ProfileTTL = 24 * time.Hour
	}
	if cfg.Schedule.WarmCron == "" {
		cfg.Schedule.WarmCron = "0 30 22 * * 1-5"
	}
	for i, s := range cfg.Schedule.Watchlist {
		cfg.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	return cfg, nil
}

func providerIs(cfg *Config, name string) bool {
	return strings.EqualFold(strings.TrimSpace(cfg.DataSource.Provider), name)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TelegramEnabled reports whether the bot credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "eodhd":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for eodhd")
		}
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and api_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Metrics.TradingDays <= 0 {
		return fmt.Errorf("metrics.trading_days must be positive")
	}
	for _, h := range c.Metrics.Horizons {
		if h <= 0 {
			return fmt.Errorf("metrics.horizons must be positive, got %d", h)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Database.SQLitePath != "" && c.Database.PostgresDSN != "" {
		return fmt.Errorf("database.sqlite_path and database.postgres_dsn are mutually exclusive")
	}
	return nil
}
