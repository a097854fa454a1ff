package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.95, cfg.Analytics.Confidence)
	assert.Equal(t, 0.02, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(mut func(c *Config)) *Config {
		c := Default()
		mut(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "bad log level",
			config:  with(func(c *Config) { c.Log.Level = "loud" }),
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "missing db path",
			config:  with(func(c *Config) { c.Journal.DBPath = "" }),
			wantErr: true,
			errMsg:  "journal.db_path is required",
		},
		{
			name:    "confidence out of range",
			config:  with(func(c *Config) { c.Analytics.Confidence = 1 }),
			wantErr: true,
			errMsg:  "analytics.confidence must be between 0 and 1",
		},
		{
			name:    "unknown period",
			config:  with(func(c *Config) { c.Analytics.Period = "hourly" }),
			wantErr: true,
			errMsg:  "analytics.period",
		},
		{
			name: "duplicate broker",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{
					{ID: "kraken", Kind: KindJournal},
					{ID: "kraken", Kind: KindMemory},
				}
			}),
			wantErr: true,
			errMsg:  `duplicate broker id "kraken"`,
		},
		{
			name: "rest without url",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "binance", Kind: KindREST}}
			}),
			wantErr: true,
			errMsg:  "url required",
		},
		{
			name: "oanda without account",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "fx", Kind: KindOANDA}}
			}),
			wantErr: true,
			errMsg:  "account_id required",
		},
		{
			name: "oanda bad env",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "fx", Kind: KindOANDA, AccountID: "101-001-1-001", Env: "sandbox"}}
			}),
			wantErr: true,
			errMsg:  "env must be",
		},
		{
			name: "oanda practice",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "fx", Kind: KindOANDA, AccountID: "101-001-1-001", Env: "practice"}}
			}),
			wantErr: false,
		},
		{
			name: "unknown kind",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "x", Kind: "ftp"}}
			}),
			wantErr: true,
			errMsg:  "kind must be",
		},
		{
			name: "bad timeout",
			config: with(func(c *Config) {
				c.Brokers = []BrokerConfig{{ID: "x", Kind: KindREST, URL: "http://x", Timeout: "soon"}}
			}),
			wantErr: true,
			errMsg:  "timeout",
		},
		{
			name: "no brokers",
			config: with(func(c *Config) {
				c.Brokers = nil
			}),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Brokers = []BrokerConfig{
				{ID: "oanda", Kind: KindJournal},
				{ID: "binance", Kind: KindREST, URL: "http://localhost:9000", Timeout: "5s", Retries: 2},
			}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Analytics, loaded.Analytics)
			assert.Equal(t, cfg.Journal.DBPath, loaded.Journal.DBPath)
			assert.Equal(t, cfg.Brokers, loaded.Brokers)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := `
analytics:
  period: weekly
brokers:
  - id: kraken
    kind: rest
    url: http://bridge:8081/kraken
    token_env: KRAKEN_TOKEN
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "weekly", cfg.Analytics.Period)
	assert.Equal(t, 0.95, cfg.Analytics.Confidence)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.Len(t, cfg.Brokers, 1)
	assert.Equal(t, "kraken", cfg.Brokers[0].ID)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestBrokerConfigHelpers(t *testing.T) {
	t.Setenv("TJ_TEST_TOKEN", "secret")

	b := BrokerConfig{TokenEnv: "TJ_TEST_TOKEN"}
	assert.Equal(t, "secret", b.ResolveToken())
	b.Token = "inline"
	assert.Equal(t, "inline", b.ResolveToken())

	tests := []struct {
		timeout  string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"", 0, false},
		{"invalid", 0, true},
	}
	for _, tt := range tests {
		d, err := BrokerConfig{Timeout: tt.timeout}.ParseTimeout()
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, d)
	}
}
