package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "", "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file-manager.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: http\nport: 9090\nlog_format: json\n"), 0o644))

	cfg, err := Load(NewViper(), path, "")
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.MaxConcurrent)
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file-manager.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o644))
	t.Setenv("FILE_MANAGER_PORT", "9191")
	t.Setenv("FILE_MANAGER_MAX_CONCURRENT", "3")

	cfg, err := Load(NewViper(), path, "")
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, 3, cfg.MaxConcurrent)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "FILE_MANAGER_LOCK_FILE"
	require.Empty(t, os.Getenv(key))
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=/tmp/fm.lock\n"), 0o644))

	cfg, err := Load(NewViper(), "", envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fm.lock", cfg.LockFile)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("FILE_MANAGER_LOG_LEVEL", "warn")

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FILE_MANAGER_LOG_LEVEL=debug\n"), 0o644))

	cfg, err := Load(NewViper(), "", envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(NewViper(), filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)

	_, err = Load(NewViper(), "", filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"http with valid port", func(c *Config) { c.Transport = TransportHTTP; c.Port = 1024 }, ""},
		{"stdio ignores port", func(c *Config) { c.Port = 0 }, ""},
		{"unknown transport", func(c *Config) { c.Transport = "grpc" }, "transport must be 'http' or 'stdio'"},
		{"http port too low", func(c *Config) { c.Transport = TransportHTTP; c.Port = 80 }, "port must be between 1024 and 65535"},
		{"http port too high", func(c *Config) { c.Transport = TransportHTTP; c.Port = 70000 }, "port must be between 1024 and 65535"},
		{"zero concurrency", func(c *Config) { c.MaxConcurrent = 0 }, "max concurrent requests must be between 1 and 100"},
		{"too much concurrency", func(c *Config) { c.MaxConcurrent = 101 }, "max concurrent requests must be between 1 and 100"},
		{"timeout lower bound", func(c *Config) { c.RequestTimeoutSec = 5 }, ""},
		{"timeout upper bound", func(c *Config) { c.RequestTimeoutSec = 300 }, ""},
		{"timeout too low", func(c *Config) { c.RequestTimeoutSec = 4 }, "request timeout must be between 5 and 300 seconds"},
		{"timeout too high", func(c *Config) { c.RequestTimeoutSec = 301 }, "request timeout must be between 5 and 300 seconds"},
		{"request size too large", func(c *Config) { c.MaxRequestSizeMB = 51 }, "max request size must be between 1 and 50 MB"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log level must be one of debug, info, warn, error"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format must be 'console' or 'json'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errorMsg)
		})
	}
}
