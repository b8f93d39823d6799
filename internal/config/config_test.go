package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://export.arxiv.org/oai2", cfg.Endpoint.BaseURL)
	assert.Equal(t, "arXiv", cfg.Endpoint.MetadataPrefix)
	assert.Equal(t, 60*time.Second, cfg.Endpoint.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Endpoint.CourtesyPause)
	assert.Equal(t, 30*time.Second, cfg.Harvest.RetryWait)
	assert.Equal(t, 300*time.Second, cfg.Harvest.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("ARXIVHARVEST_ENDPOINT_BASE_URL", "http://localhost:8080/oai2")
	t.Setenv("ARXIVHARVEST_HARVEST_RETRY_WAIT", "10s")
	t.Setenv("ARXIVHARVEST_HARVEST_TIMEOUT", "2m")
	t.Setenv("ARXIVHARVEST_LOGGING_LEVEL", "debug")
	t.Setenv("ARXIVHARVEST_METRICS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/oai2", cfg.Endpoint.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Harvest.RetryWait)
	assert.Equal(t, 2*time.Minute, cfg.Harvest.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "localhost:9191", cfg.Metrics.Address)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("ARXIVHARVEST_LOGGING_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative retry wait", func(t *testing.T) {
		t.Setenv("ARXIVHARVEST_HARVEST_RETRY_WAIT", "-5s")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Endpoint: EndpointConfig{
				BaseURL: "https://export.arxiv.org/oai2",
				Timeout: time.Minute,
			},
			Harvest: HarvestConfig{RetryWait: 30 * time.Second, Timeout: 300 * time.Second},
			Logging: LoggingConfig{Level: "info"},
		}
	}

	t.Run("accepts a valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("requires a base URL", func(t *testing.T) {
		cfg := valid()
		cfg.Endpoint.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires a positive endpoint timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Endpoint.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires a metrics address when enabled", func(t *testing.T) {
		cfg := valid()
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = ""
		assert.Error(t, cfg.Validate())
	})
}
