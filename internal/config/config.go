package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the host reads.
const EnvPrefix = "FILE_MANAGER"

// Configuration keys, shared by viper, YAML files and flags (with '-' for '_').
const (
	KeyTransport         = "transport"
	KeyPort              = "port"
	KeyMaxConcurrent     = "max_concurrent"
	KeyRequestTimeoutSec = "request_timeout_sec"
	KeyMaxRequestSizeMB  = "max_request_size_mb"
	KeyLockFile          = "lock_file"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configurable values for the host.
type Config struct {
	Transport         string `mapstructure:"transport" yaml:"transport"`
	Port              int    `mapstructure:"port" yaml:"port"`
	MaxConcurrent     int    `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	MaxRequestSizeMB  int    `mapstructure:"max_request_size_mb" yaml:"max_request_size_mb"`
	LockFile          string `mapstructure:"lock_file" yaml:"lock_file"`
	LogLevel          string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Transport:         TransportStdio,
		Port:              8080,
		MaxConcurrent:     10,
		RequestTimeoutSec: 30,
		MaxRequestSizeMB:  1,
		LockFile:          "",
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// NewViper returns a viper instance seeded with defaults and bound to
// FILE_MANAGER_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyTransport, d.Transport)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyMaxConcurrent, d.MaxConcurrent)
	v.SetDefault(KeyRequestTimeoutSec, d.RequestTimeoutSec)
	v.SetDefault(KeyMaxRequestSizeMB, d.MaxRequestSizeMB)
	v.SetDefault(KeyLockFile, d.LockFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the effective configuration. envFile is loaded into the
// process environment first; an empty envFile means an optional ./.env.
// Variables already set in the environment win over the file. A non-empty
// configFile must exist. Flags bound to v take precedence over everything.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.Transport != TransportHTTP && c.Transport != TransportStdio {
		return fmt.Errorf("transport must be 'http' or 'stdio'")
	}

	if c.Transport == TransportHTTP && (c.Port < 1024 || c.Port > 65535) {
		return fmt.Errorf("port must be between 1024 and 65535")
	}

	if c.MaxConcurrent < 1 || c.MaxConcurrent > 100 {
		return fmt.Errorf("max concurrent requests must be between 1 and 100")
	}

	if c.RequestTimeoutSec < 5 || c.RequestTimeoutSec > 300 {
		return fmt.Errorf("request timeout must be between 5 and 300 seconds")
	}

	if c.MaxRequestSizeMB < 1 || c.MaxRequestSizeMB > 50 {
		return fmt.Errorf("max request size must be between 1 and 50 MB")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be 'console' or 'json'")
	}

	return nil
}
