package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := map[string]struct {
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		"default values": {
			envVars: map[string]string{},
			validate: func(t *testing.T, c *Config) {
				assert.Equal(t, 9600, c.Server.Port)
				assert.Equal(t, 60*time.Second, c.Fetch.Timeout)
				assert.Equal(t, 10, c.Fetch.MaxRedirects)
				assert.Equal(t, int64(10<<20), c.Fetch.MaxBodySize)
				assert.Equal(t, DefaultUserAgent, c.Fetch.UserAgent)
				assert.Equal(t, DefaultAccept, c.Fetch.Accept)
				assert.Equal(t, int64(10), c.Blocklist.Threshold)
				assert.Equal(t, 24*time.Hour, c.Blocklist.TTL)
				assert.Equal(t, time.Hour, c.RecentSave.TTL)
				assert.Equal(t, "feed-refresher:jobs:high", c.Queue.HighPriorityStream)
				assert.Equal(t, 100, c.Processing.MaxItemsPerRun)
				assert.True(t, c.Discovery.Enabled)
			},
		},
		"custom values": {
			envVars: map[string]string{
				"SERVER_PORT":             "8080",
				"FETCH_TIMEOUT":           "15s",
				"MAX_FEED_FETCH_FAILURES": "3",
				"WORKER_COUNT":            "8",
				"DISCOVERY_ENABLED":       "false",
				"CONTENT_FETCH_URL":       "http://content-fetch:8080/api/save",
				"DOWNSTREAM_API_TOKEN":    "secret",
				"OTEL_TRACE_SAMPLE_RATIO": "0.25",
			},
			validate: func(t *testing.T, c *Config) {
				assert.Equal(t, 8080, c.Server.Port)
				assert.Equal(t, 15*time.Second, c.Fetch.Timeout)
				assert.Equal(t, int64(3), c.Blocklist.Threshold)
				assert.Equal(t, 8, c.Queue.WorkerCount)
				assert.False(t, c.Discovery.Enabled)
				assert.Equal(t, "http://content-fetch:8080/api/save", c.Downstream.ContentFetchURL)
				assert.Equal(t, "secret", c.Downstream.APIToken)
				assert.Equal(t, 0.25, c.OTel.TraceSampleRatio)
			},
		},
		"invalid port": {
			envVars: map[string]string{
				"SERVER_PORT": "70000",
			},
			expectError: true,
		},
		"invalid duration": {
			envVars: map[string]string{
				"FETCH_TIMEOUT": "soon",
			},
			expectError: true,
		},
		"invalid worker count": {
			envVars: map[string]string{
				"WORKER_COUNT": "0",
			},
			expectError: true,
		},
		"invalid downstream url": {
			envVars: map[string]string{
				"SAVE_CONTENT_URL": "ftp://save",
			},
			expectError: true,
		},
		"invalid bool": {
			envVars: map[string]string{
				"OTEL_ENABLED": "maybe",
			},
			expectError: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for key, value := range tc.envVars {
				t.Setenv(key, value)
			}

			config, err := LoadConfig()

			if tc.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			tc.validate(t, config)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := map[string]struct {
		mutate   func(*Config)
		errorMsg string
	}{
		"defaults are valid": {
			mutate: func(*Config) {},
		},
		"invalid port zero": {
			mutate:   func(c *Config) { c.Server.Port = 0 },
			errorMsg: "invalid server port",
		},
		"min conns above max": {
			mutate:   func(c *Config) { c.Database.MinConns = 20 },
			errorMsg: "database min conns",
		},
		"same stream for both priorities": {
			mutate:   func(c *Config) { c.Queue.LowPriorityStream = c.Queue.HighPriorityStream },
			errorMsg: "queue streams must differ",
		},
		"zero threshold": {
			mutate:   func(c *Config) { c.Blocklist.Threshold = 0 },
			errorMsg: "feed failure threshold",
		},
		"sample ratio above one": {
			mutate:   func(c *Config) { c.OTel.TraceSampleRatio = 1.5 },
			errorMsg: "trace sample ratio",
		},
		"discovery disabled ignores interval": {
			mutate: func(c *Config) {
				c.Discovery.Enabled = false
				c.Discovery.Interval = 0
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := validateConfig(cfg)
			if tc.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorMsg)
		})
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "feed", Password: "p@ss", Name: "feeds", SSLMode: "disable"}
	assert.Equal(t, "postgres://feed:p%40ss@db:5432/feeds?sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())
}
