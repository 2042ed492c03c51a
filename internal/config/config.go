package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"CompanyPulse/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		// BaseURL selects the REST gateway instead of Yahoo Finance.
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	News struct {
		FeedURL          string   `yaml:"feed_url"`
		Recency          string   `yaml:"recency"`
		FetchLimit       int      `yaml:"fetch_limit"`
		ScanLimit        int      `yaml:"scan_limit"`
		Limit            int      `yaml:"limit"`
		MinImportant     int      `yaml:"min_important"`
		IdentityRequired *bool    `yaml:"identity_required"`
		Keywords         []string `yaml:"keywords"`
		IdentityKeywords []string `yaml:"identity_keywords"`
	} `yaml:"news"`
	Analytics struct {
		Periods []model.GrowthPeriod `yaml:"periods"`
	} `yaml:"analytics"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		Companies []string `yaml:"companies"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultKeywords are the topical growth keywords.
var DefaultKeywords = []string{
	"growth", "expansion", "revenue increase", "profit rise", "sales growth",
	"market share", "scaling", "business growth", "quarterly growth", "performance improvement",
}

// DefaultIdentityKeywords are the leadership and corporate-event keywords.
var DefaultIdentityKeywords = []string{
	"CEO", "chief executive", "merger", "acquisition", "guidance", "forecast",
	"outlook", "leadership", "appoints",
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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("PULSE_GATEWAY_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("PULSE_GATEWAY_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("PULSE_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("PULSE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		c.Schedule.DigestCron = v
	}
	if v := os.Getenv("PULSE_WATCHLIST"); v != "" {
		var companies []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				companies = append(companies, s)
			}
		}
		c.Watchlist.Companies = companies
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = 2
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://news.google.com/rss/search"
	}
	if c.News.FetchLimit == 0 {
		c.News.FetchLimit = 50
	}
	if c.News.ScanLimit == 0 {
		c.News.ScanLimit = 30
	}
	if c.News.Limit == 0 {
		c.News.Limit = 15
	}
	if c.News.MinImportant == 0 {
		c.News.MinImportant = 1
	}
	if c.News.IdentityRequired == nil {
		required := true
		c.News.IdentityRequired = &required
	}
	if len(c.News.Keywords) == 0 {
		c.News.Keywords = append([]string(nil), DefaultKeywords...)
	}
	if len(c.News.IdentityKeywords) == 0 {
		c.News.IdentityKeywords = append([]string(nil), DefaultIdentityKeywords...)
	}
	if len(c.Analytics.Periods) == 0 {
		c.Analytics.Periods = append([]model.GrowthPeriod(nil), model.DefaultGrowthPeriods...)
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 18 * * 1-5"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// IsIdentityRequired reports whether news relevance needs the company name
// in the headline.
func (c *Config) IsIdentityRequired() bool {
	return c.News.IdentityRequired == nil || *c.News.IdentityRequired
}

// BotEnabled reports whether Telegram credentials are configured.
func (c *Config) BotEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks field consistency. Telegram credentials are optional but
// must be given together.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.News.Limit < 0 || c.News.ScanLimit < 0 || c.News.FetchLimit < 0 {
		return fmt.Errorf("news limits must not be negative")
	}
	if c.News.MinImportant < 0 {
		return fmt.Errorf("news.min_important must not be negative")
	}
	seen := make(map[string]bool, len(c.Analytics.Periods))
	for _, p := range c.Analytics.Periods {
		if strings.TrimSpace(p.Label) == "" {
			return fmt.Errorf("analytics.periods: label is required")
		}
		if p.Days <= 0 {
			return fmt.Errorf("analytics.periods %q: days must be positive", p.Label)
		}
		if seen[p.Label] {
			return fmt.Errorf("analytics.periods %q: duplicate label", p.Label)
		}
		seen[p.Label] = true
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
