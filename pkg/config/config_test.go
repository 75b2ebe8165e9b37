package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"AWS_REGION", "METRICS_PROVIDER", "PROMETHEUS_URL", "METRICS_WINDOW",
		"STORAGE_ENABLED", "DATABASE_URL", "ANALYSIS_CONCURRENCY",
		"MIN_MONTHLY_SAVINGS", "OUTPUT_FORMAT", "VERBOSE",
	} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, ProviderCloudWatch, cfg.MetricsProvider)
	assert.Equal(t, 60*24*time.Hour, cfg.MetricsWindow)
	assert.Equal(t, time.Hour, cfg.MetricsPeriod)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 1.0, cfg.MinMonthlySavings)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.False(t, cfg.StorageEnabled)
	assert.False(t, cfg.Verbose)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("METRICS_PROVIDER", "prometheus")
	t.Setenv("METRICS_WINDOW", "336h")
	t.Setenv("ANALYSIS_CONCURRENCY", "10")
	t.Setenv("MIN_MONTHLY_SAVINGS", "5.5")
	t.Setenv("STORAGE_ENABLED", "true")

	cfg := NewConfig()
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, ProviderPrometheus, cfg.MetricsProvider)
	assert.Equal(t, 336*time.Hour, cfg.MetricsWindow)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, 5.5, cfg.MinMonthlySavings)
	assert.True(t, cfg.StorageEnabled)
}

func TestValidateErrors(t *testing.T) {
	base := func() *Config {
		cfg := NewConfig()
		cfg.Region = "us-east-1"
		cfg.MetricsProvider = ProviderCloudWatch
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty region", func(c *Config) { c.Region = "" }},
		{"unknown provider", func(c *Config) { c.MetricsProvider = "graphite" }},
		{"prometheus without url", func(c *Config) {
			c.MetricsProvider = ProviderPrometheus
			c.PrometheusURL = ""
		}},
		{"storage without dsn", func(c *Config) {
			c.StorageEnabled = true
			c.DatabaseURL = ""
		}},
		{"window too short", func(c *Config) { c.MetricsWindow = 30 * time.Minute }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"negative savings floor", func(c *Config) { c.MinMonthlySavings = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
