package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string   `yaml:"base_url"`
		WSURL       string   `yaml:"ws_url"`
		Symbols     []string `yaml:"symbols"`
		Interval    string   `yaml:"interval"`
		CandleLimit int      `yaml:"candle_limit"`
	} `yaml:"data_source"`
	Scan struct {
		Cron             string  `yaml:"cron"`
		ZigZagDeviation  float64 `yaml:"zigzag_deviation"`
		LivePriceEnabled bool    `yaml:"live_price_enabled"`
	} `yaml:"scan"`
	AI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"ai"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	// Optional .env next to the binary; ignored when absent.
	_ = godotenv.Load()

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
	if v := os.Getenv("TG_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("HYPERLIQUID_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HYPERLIQUID_WS_URL"); v != "" {
		cfg.DataSource.WSURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		cfg.DataSource.Interval = v
	}
	if v := os.Getenv("CANDLE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.CandleLimit = n
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Scan.Cron = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.hyperliquid.xyz"
	}
	if cfg.DataSource.WSURL == "" {
		cfg.DataSource.WSURL = "wss://api.hyperliquid.xyz/ws"
	}
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"BTC", "ETH"}
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.DataSource.CandleLimit == 0 {
		cfg.DataSource.CandleLimit = 200
	}
	if cfg.Scan.Cron == "" {
		cfg.Scan.Cron = "*/20 * * * * *"
	}
	if cfg.Scan.ZigZagDeviation == 0 {
		cfg.Scan.ZigZagDeviation = 1.0
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-pro"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/hypebot.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.Scan.ZigZagDeviation <= 0 {
		return fmt.Errorf("scan.zigzag_deviation must be positive")
	}
	return nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(strings.ToUpper(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
