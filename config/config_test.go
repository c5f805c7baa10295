package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBase() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Address:           ":8080",
			ReadTimeout:       time.Second,
			WriteTimeout:      time.Second,
			IdleTimeout:       time.Second,
			ReadHeaderTimeout: time.Second,
			ShutdownTimeout:   time.Second,
		},
		Storage: StorageConfig{Adapter: "memory"},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Verify defaults
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Storage.Adapter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Janitor.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Janitor.Interval)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FORUMKIT_ENV", "staging")
	t.Setenv("FORUMKIT_SERVER_ADDR", ":7070")
	t.Setenv("FORUMKIT_STORAGE_ADAPTER", "redis")
	t.Setenv("FORUMKIT_SECURITY_API_KEYS", "alpha, beta")
	t.Setenv("FORUMKIT_JANITOR_INTERVAL", "6h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.Environment)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "redis", cfg.Storage.Adapter)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Security.APIKeys)
	assert.Equal(t, 6*time.Hour, cfg.Janitor.Interval)
}

func TestLoadFromFile(t *testing.T) {
	configContent := `{
		"environment": "testing",
		"server": {
			"address": ":9090"
		},
		"storage": {
			"adapter": "memory"
		}
	}`

	tmpFile, err := os.CreateTemp("", "config_test_*.json")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(configContent)
	require.NoError(t, err)
	tmpFile.Close()

	cfg, err := LoadFromFile(tmpFile.Name())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, EnvTesting, cfg.Environment)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Storage.Adapter)
}

func TestLoadFromFileRejectsBadPath(t *testing.T) {
	_, err := LoadFromFile("")
	assert.Error(t, err)

	_, err = LoadFromFile("/does/not/exist.json")
	assert.Error(t, err)

	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	_, err = LoadFromFile(tmpFile.Name())
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "valid config",
			mutate:      func(*Config) {},
			expectError: false,
		},
		{
			name:        "invalid environment",
			mutate:      func(c *Config) { c.Environment = "" },
			expectError: true,
		},
		{
			name:        "invalid server timeout",
			mutate:      func(c *Config) { c.Server.ReadTimeout = 0 },
			expectError: true,
		},
		{
			name:        "unknown storage adapter",
			mutate:      func(c *Config) { c.Storage.Adapter = "file" },
			expectError: true,
		},
		{
			name:        "redis adapter without addr",
			mutate:      func(c *Config) { c.Storage.Adapter = "redis" },
			expectError: true,
		},
		{
			name: "sql adapter with bad driver",
			mutate: func(c *Config) {
				c.Storage.Adapter = "sql"
				c.Storage.SQL.Driver = "sqlite"
				c.Storage.SQL.DSN = "x"
			},
			expectError: true,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
		},
		{
			name: "rate limit enabled without rpm",
			mutate: func(c *Config) {
				c.Security.EnableRateLimit = true
			},
			expectError: true,
		},
		{
			name: "webhook secret without url",
			mutate: func(c *Config) {
				c.Security.WebhookSecret = "s3"
			},
			expectError: true,
		},
		{
			name: "janitor enabled without interval",
			mutate: func(c *Config) {
				c.Janitor.Enabled = true
				c.Janitor.Interval = 0
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
