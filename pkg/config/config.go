package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// MetricsProvider selects where utilization series come from.
const (
	ProviderCloudWatch = "cloudwatch"
	ProviderPrometheus = "prometheus"
	ProviderStatic     = "static"
)

// Config holds application configuration
type Config struct {
	// AWS
	Region string

	// Metrics
	MetricsProvider string
	PrometheusURL   string
	MetricsWindow   time.Duration
	MetricsPeriod   time.Duration

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Analysis
	Concurrency       int
	MinMonthlySavings float64
	TuningFile        string
	CatalogFile       string

	// Output
	OutputFormat string // text, markdown, csv, json
	Verbose      bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Region:            getEnv("AWS_REGION", "us-east-1"),
		MetricsProvider:   getEnv("METRICS_PROVIDER", ProviderCloudWatch),
		PrometheusURL:     getEnv("PROMETHEUS_URL", "http://localhost:9090"),
		MetricsWindow:     getEnvDuration("METRICS_WINDOW", 60*24*time.Hour),
		MetricsPeriod:     getEnvDuration("METRICS_PERIOD", time.Hour),
		StorageEnabled:    getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost port=5432 user=wasteuser password=devpassword dbname=wasteadvisor sslmode=disable"),
		Concurrency:       getEnvInt("ANALYSIS_CONCURRENCY", 5),
		MinMonthlySavings: getEnvFloat("MIN_MONTHLY_SAVINGS", 1.0),
		TuningFile:        getEnv("TUNING_FILE", ""),
		CatalogFile:       getEnv("CATALOG_FILE", ""),
		OutputFormat:      getEnv("OUTPUT_FORMAT", "text"),
		Verbose:           getEnvBool("VERBOSE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must be set")
	}
	switch c.MetricsProvider {
	case ProviderCloudWatch, ProviderPrometheus, ProviderStatic:
	default:
		return fmt.Errorf("unknown metrics provider %q", c.MetricsProvider)
	}
	if c.MetricsProvider == ProviderPrometheus && c.PrometheusURL == "" {
		return fmt.Errorf("PROMETHEUS_URL must be set when using the prometheus provider")
	}
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.MetricsWindow < time.Hour {
		return fmt.Errorf("metrics window must be at least 1 hour")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1")
	}
	if c.MinMonthlySavings < 0 {
		return fmt.Errorf("minimum monthly savings must be >= 0")
	}
	return nil
}
