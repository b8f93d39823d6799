// Package config provides configuration management for the harvester CLI.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the harvester CLI.
type Config struct {
	// Endpoint contains OAI-PMH endpoint settings.
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	// Harvest contains harvest loop defaults.
	Harvest HarvestConfig `mapstructure:"harvest"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// EndpointConfig holds OAI-PMH endpoint configuration.
type EndpointConfig struct {
	// BaseURL is the OAI-PMH endpoint URL.
	BaseURL string `mapstructure:"base_url"`
	// MetadataPrefix is the metadata format requested on the initial request.
	MetadataPrefix string `mapstructure:"metadata_prefix"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// CourtesyPause is the minimum spacing between consecutive requests.
	CourtesyPause time.Duration `mapstructure:"courtesy_pause"`
	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `mapstructure:"user_agent"`
}

// HarvestConfig holds harvest loop defaults, overridable per run via
// CLI flags.
type HarvestConfig struct {
	// RetryWait is the sleep before retrying after a 503 response.
	RetryWait time.Duration `mapstructure:"retry_wait"`
	// Timeout bounds the wall-clock duration of one harvest.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables the Prometheus metrics endpoint.
	Enabled bool `mapstructure:"enabled"`
	// Address is the listen address for the metrics server.
	Address string `mapstructure:"address"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and an optional
// config file (config.yaml in the working directory or ./config).
// Environment variables use the ARXIVHARVEST prefix, e.g.
// ARXIVHARVEST_HARVEST_RETRY_WAIT=10s.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ARXIVHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Endpoint defaults
	v.SetDefault("endpoint.base_url", "https://export.arxiv.org/oai2")
	v.SetDefault("endpoint.metadata_prefix", "arXiv")
	v.SetDefault("endpoint.timeout", "60s")
	v.SetDefault("endpoint.courtesy_pause", "3s")
	v.SetDefault("endpoint.user_agent", "arxiv-harvester/1.0")

	// Harvest defaults
	v.SetDefault("harvest.retry_wait", "30s")
	v.SetDefault("harvest.timeout", "300s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "localhost:9191")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Endpoint.BaseURL == "" {
		return fmt.Errorf("endpoint base URL is required")
	}
	if _, err := url.Parse(c.Endpoint.BaseURL); err != nil {
		return fmt.Errorf("invalid endpoint base URL: %w", err)
	}
	if c.Endpoint.Timeout <= 0 {
		return fmt.Errorf("endpoint timeout must be positive")
	}
	if c.Harvest.RetryWait < 0 {
		return fmt.Errorf("harvest retry wait must be non-negative")
	}
	if c.Harvest.Timeout < 0 {
		return fmt.Errorf("harvest timeout must be non-negative")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics address is required when metrics are enabled")
	}

	return nil
}
