package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete game configuration.
type Config struct {
	Account     AccountConfig     `json:"account" yaml:"account"`
	Game        GameConfig        `json:"game" yaml:"game"`
	Prices      PricesConfig      `json:"prices" yaml:"prices"`
	News        NewsConfig        `json:"news" yaml:"news"`
	Leaderboard LeaderboardConfig `json:"leaderboard" yaml:"leaderboard"`
	Journal     JournalConfig     `json:"journal" yaml:"journal"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
}

// AccountConfig sets up the player's margin account.
type AccountConfig struct {
	Balance    float64 `json:"balance" yaml:"balance"`
	LotSize    int64   `json:"lot_size" yaml:"lot_size"`
	MarginRate float64 `json:"margin_rate" yaml:"margin_rate"`
}

const (
	ModeHistorical = "historical"
	ModeSynthetic  = "synthetic"
)

// GameConfig controls pacing and randomness.
type GameConfig struct {
	Player string `json:"player" yaml:"player"`
	// Mode is "historical" (replay closes as fetched) or "synthetic"
	// (random-walk the closes first).
	Mode string `json:"mode" yaml:"mode"`
	// Seed makes a game reproducible; 0 picks a fresh one.
	Seed          uint64 `json:"seed" yaml:"seed"`
	TotalDuration string `json:"total_duration" yaml:"total_duration"` // e.g. "10m"
	MinInterval   string `json:"min_interval" yaml:"min_interval"`     // e.g. "200ms"
}

// Durations parses TotalDuration and MinInterval.
func (g GameConfig) Durations() (total, min time.Duration, err error) {
	if total, err = time.ParseDuration(g.TotalDuration); err != nil {
		return 0, 0, fmt.Errorf("game.total_duration: %w", err)
	}
	if min, err = time.ParseDuration(g.MinInterval); err != nil {
		return 0, 0, fmt.Errorf("game.min_interval: %w", err)
	}
	return total, min, nil
}

const (
	SourceYahoo     = "yahoo"
	SourceGenerated = "generated"
)

// PricesConfig says where the daily closes come from.
type PricesConfig struct {
	// Source is "yahoo" (chart API behind the cache file) or "generated"
	// (a seeded random walk, no network).
	Source    string  `json:"source" yaml:"source"`
	Symbol    string  `json:"symbol" yaml:"symbol"`
	From      string  `json:"from" yaml:"from"` // YYYY-MM-DD
	To        string  `json:"to" yaml:"to"`     // YYYY-MM-DD, exclusive
	CacheFile string  `json:"cache_file,omitempty" yaml:"cache_file,omitempty"`
	BaseURL   string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Days      int     `json:"days,omitempty" yaml:"days,omitempty"`
	Open      float64 `json:"open,omitempty" yaml:"open,omitempty"`
}

// Window parses From and To.
func (p PricesConfig) Window() (from, to time.Time, err error) {
	if from, err = time.Parse(time.DateOnly, p.From); err != nil {
		return from, to, fmt.Errorf("prices.from: %w", err)
	}
	if to, err = time.Parse(time.DateOnly, p.To); err != nil {
		return from, to, fmt.Errorf("prices.to: %w", err)
	}
	return from, to, nil
}

// NewsConfig controls headlines.
type NewsConfig struct {
	// File is an optional JSON object of date -> headline(s).
	File        string  `json:"file,omitempty" yaml:"file,omitempty"`
	Probability float64 `json:"probability" yaml:"probability"`
	Builtin     bool    `json:"builtin" yaml:"builtin"`
}

// LeaderboardConfig contains leaderboard storage parameters
type LeaderboardConfig struct {
	Type string `json:"type" yaml:"type"` // "csv" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML). Fields
// missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.LotSize <= 0 {
		return fmt.Errorf("account.lot_size must be positive")
	}
	if c.Account.MarginRate <= 0 || c.Account.MarginRate > 1 {
		return fmt.Errorf("account.margin_rate must be in (0, 1]")
	}

	if c.Game.Mode != ModeHistorical && c.Game.Mode != ModeSynthetic {
		return fmt.Errorf("game.mode must be '%s' or '%s'", ModeHistorical, ModeSynthetic)
	}
	total, min, err := c.Game.Durations()
	if err != nil {
		return err
	}
	if total <= 0 || min <= 0 {
		return fmt.Errorf("game durations must be positive")
	}

	switch c.Prices.Source {
	case SourceYahoo:
		if c.Prices.Symbol == "" {
			return fmt.Errorf("prices.symbol is required")
		}
		from, to, err := c.Prices.Window()
		if err != nil {
			return err
		}
		if !from.Before(to) {
			return fmt.Errorf("prices.from must be before prices.to")
		}
	case SourceGenerated:
		if _, _, err := c.Prices.Window(); err != nil {
			return err
		}
		if c.Prices.Days <= 0 {
			return fmt.Errorf("prices.days must be positive for generated prices")
		}
		if c.Prices.Open <= 0 {
			return fmt.Errorf("prices.open must be positive for generated prices")
		}
	default:
		return fmt.Errorf("prices.source must be '%s' or '%s'", SourceYahoo, SourceGenerated)
	}

	if c.News.Probability < 0 || c.News.Probability > 1 {
		return fmt.Errorf("news.probability must be between 0 and 1")
	}

	if c.Leaderboard.Type != "csv" && c.Leaderboard.Type != "sqlite" {
		return fmt.Errorf("leaderboard.type must be 'csv' or 'sqlite'")
	}
	if c.Leaderboard.Path == "" {
		return fmt.Errorf("leaderboard.path is required")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns the 2008 gold game.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance:    100000,
			LotSize:    1,
			MarginRate: 0.10,
		},
		Game: GameConfig{
			Player:        "player",
			Mode:          ModeHistorical,
			TotalDuration: "10m",
			MinInterval:   "200ms",
		},
		Prices: PricesConfig{
			Source:    SourceYahoo,
			Symbol:    "GC=F",
			From:      "2008-01-01",
			To:        "2009-01-01",
			CacheFile: "gold_2008.csv",
			Days:      253,
			Open:      840,
		},
		News: NewsConfig{
			File:        "my_news.json",
			Probability: 0.20,
			Builtin:     true,
		},
		Leaderboard: LeaderboardConfig{
			Type: "csv",
			Path: "leaderboard.csv",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
