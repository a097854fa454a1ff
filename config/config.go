package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete journal configuration
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Brokers   []BrokerConfig  `json:"brokers" yaml:"brokers"`
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"` // debug, info, warn, error
	Pretty     bool   `json:"pretty" yaml:"pretty"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// AnalyticsConfig holds the risk metric parameters
type AnalyticsConfig struct {
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	Period       string  `json:"period" yaml:"period"` // daily, weekly, monthly
}

type FetchConfig struct {
	TolerateErrors bool `json:"tolerate_errors" yaml:"tolerate_errors"`
}

const (
	KindMemory  = "memory"
	KindREST    = "rest"
	KindJournal = "journal"
	KindOANDA   = "oanda"
)

var oandaEnvs = map[string]bool{"": true, "practice": true, "demo": true, "live": true}

// BrokerConfig describes one broker source. A journal broker serves the
// recorded history of the broker with the same id. With no brokers
// configured, every broker in the journal is served.
type BrokerConfig struct {
	ID   string `json:"id" yaml:"id"`
	Kind string `json:"kind" yaml:"kind"` // memory, rest, oanda or journal

	// rest and oanda; an oanda broker without url uses the env's API host
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "10s"
	Retries  int    `json:"retries,omitempty" yaml:"retries,omitempty"`

	// oanda
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Env       string `json:"env,omitempty" yaml:"env,omitempty"` // practice or live

	// memory: optional CSV of trades to serve
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ParseTimeout converts the timeout string to time.Duration
func (b BrokerConfig) ParseTimeout() (time.Duration, error) {
	if b.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(b.Timeout)
}

// ResolveToken returns Token, or the value of the TokenEnv variable when
// Token is empty.
func (b BrokerConfig) ResolveToken() string {
	if b.Token != "" || b.TokenEnv == "" {
		return b.Token
	}
	return os.Getenv(b.TokenEnv)
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

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

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, else JSON)
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

var (
	logLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	periods   = map[string]bool{"daily": true, "weekly": true, "monthly": true}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Analytics.Confidence <= 0 || c.Analytics.Confidence >= 1 {
		return fmt.Errorf("analytics.confidence must be between 0 and 1")
	}
	if !periods[strings.ToLower(c.Analytics.Period)] {
		return fmt.Errorf("analytics.period must be daily, weekly or monthly")
	}

	seen := map[string]bool{}
	for i, b := range c.Brokers {
		if b.ID == "" {
			return fmt.Errorf("brokers[%d].id is required", i)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate broker id %q", b.ID)
		}
		seen[b.ID] = true

		switch b.Kind {
		case KindMemory, KindJournal:
		case KindREST:
			if b.URL == "" {
				return fmt.Errorf("broker %s: url required for rest kind", b.ID)
			}
		case KindOANDA:
			if b.AccountID == "" {
				return fmt.Errorf("broker %s: account_id required for oanda kind", b.ID)
			}
			if !oandaEnvs[strings.ToLower(b.Env)] {
				return fmt.Errorf("broker %s: env must be practice or live", b.ID)
			}
		default:
			return fmt.Errorf("broker %s: kind must be memory, rest, oanda or journal", b.ID)
		}
		if b.Retries < 0 {
			return fmt.Errorf("broker %s: retries must not be negative", b.ID)
		}
		if _, err := b.ParseTimeout(); err != nil {
			return fmt.Errorf("broker %s: timeout: %w", b.ID, err)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Journal: JournalConfig{
			DBPath: "./tradejournal.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Analytics: AnalyticsConfig{
			RiskFreeRate: 0.02,
			Confidence:   0.95,
			Period:       "daily",
		},
	}
}
