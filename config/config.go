package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/goldwatch/market"
)

// Config represents the complete service configuration
type Config struct {
	Feed  FeedConfig  `json:"feed" yaml:"feed"`
	Cache CacheConfig `json:"cache" yaml:"cache"`
	Store StoreConfig `json:"store" yaml:"store"`
	Watch []string    `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// FeedConfig contains the upstream connection parameters. Durations are
// strings ("1s", "500ms") parsed by time.ParseDuration.
type FeedConfig struct {
	URL               string `json:"url" yaml:"url"`
	DialTimeout       string `json:"dial_timeout,omitempty" yaml:"dial_timeout,omitempty"`
	MaxReconnects     int    `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
	ReconnectDelay    string `json:"reconnect_delay,omitempty" yaml:"reconnect_delay,omitempty"`
	ReconnectDelayMax string `json:"reconnect_delay_max,omitempty" yaml:"reconnect_delay_max,omitempty"`
}

// CacheConfig contains the staleness contract parameters
type CacheConfig struct {
	StaleAfter   string `json:"stale_after,omitempty" yaml:"stale_after,omitempty"`
	FetchTimeout string `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"`
}

// StoreConfig contains the sqlite database locations
type StoreConfig struct {
	HistoryDB string `json:"history_db" yaml:"history_db"`
	SubsDB    string `json:"subs_db" yaml:"subs_db"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
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
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if !strings.HasPrefix(c.Feed.URL, "ws://") && !strings.HasPrefix(c.Feed.URL, "wss://") {
		return fmt.Errorf("feed.url must be a ws:// or wss:// endpoint")
	}
	if c.Feed.MaxReconnects < 0 {
		return fmt.Errorf("feed.max_reconnects must not be negative")
	}
	for _, field := range []struct{ name, value string }{
		{"feed.dial_timeout", c.Feed.DialTimeout},
		{"feed.reconnect_delay", c.Feed.ReconnectDelay},
		{"feed.reconnect_delay_max", c.Feed.ReconnectDelayMax},
		{"cache.stale_after", c.Cache.StaleAfter},
		{"cache.fetch_timeout", c.Cache.FetchTimeout},
	} {
		if _, err := parseDuration(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	if c.Store.HistoryDB == "" {
		return fmt.Errorf("store.history_db is required")
	}
	if c.Store.SubsDB == "" {
		return fmt.Errorf("store.subs_db is required")
	}
	for _, code := range c.Watch {
		if !market.Valid(code) {
			return fmt.Errorf("unknown instrument in watch list: %s", code)
		}
	}
	return nil
}

// DialTimeout returns feed.dial_timeout, or zero when unset so the feed
// package applies its default.
func (c *Config) DialTimeout() time.Duration { return mustDuration(c.Feed.DialTimeout) }

// ReconnectDelay returns feed.reconnect_delay, or zero when unset.
func (c *Config) ReconnectDelay() time.Duration { return mustDuration(c.Feed.ReconnectDelay) }

// ReconnectDelayMax returns feed.reconnect_delay_max, or zero when unset.
func (c *Config) ReconnectDelayMax() time.Duration { return mustDuration(c.Feed.ReconnectDelayMax) }

// StaleAfter returns cache.stale_after, or zero when unset.
func (c *Config) StaleAfter() time.Duration { return mustDuration(c.Cache.StaleAfter) }

// FetchTimeout returns cache.fetch_timeout, or zero when unset.
func (c *Config) FetchTimeout() time.Duration { return mustDuration(c.Cache.FetchTimeout) }

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// mustDuration is safe after Validate has passed.
func mustDuration(s string) time.Duration {
	d, _ := parseDuration(s)
	return d
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:               "wss://feed.example.com/socket",
			DialTimeout:       "5s",
			MaxReconnects:     10,
			ReconnectDelay:    "1s",
			ReconnectDelayMax: "5s",
		},
		Cache: CacheConfig{
			StaleAfter:   "1s",
			FetchTimeout: "3s",
		},
		Store: StoreConfig{
			HistoryDB: "./history.db",
			SubsDB:    "./subs.db",
		},
	}
}
