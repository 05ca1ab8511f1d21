package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Detector DetectorConfig `yaml:"detector"`
	Scan     ScanConfig     `yaml:"scan"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig holds rate endpoint settings.
type SourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DetectorConfig holds detection settings.
type DetectorConfig struct {
	TradeAmount uint64 `yaml:"trade_amount"`
}

// ScanConfig holds scan scheduling settings.
type ScanConfig struct {
	// Interval between scans. Zero means a single one-shot scan.
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides. A missing file is not an error: defaults plus environment make
// a complete configuration. Validation is separate so callers can layer CLI
// flags on top before validating.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.setDefaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(data) > 0 {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// setDefaults sets default values for all configuration options.
func (c *Config) setDefaults() {
	c.Source = SourceConfig{
		Timeout: 10 * time.Second,
	}
	c.Detector = DetectorConfig{
		TradeAmount: 100,
	}
	c.Scan = ScanConfig{
		Interval: 0,
	}
	c.Metrics = MetricsConfig{
		Enabled: false,
		Port:    9090,
		Path:    "/metrics",
	}
	c.Logging = LoggingConfig{
		Level:  "info",
		Format: "console",
	}
}

// applyEnvOverrides applies environment variable overrides to configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RATES_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("RATES_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Source.Timeout = d
		}
	}
	if v := os.Getenv("TRADE_AMOUNT"); v != "" {
		var amount uint64
		if _, err := fmt.Sscanf(v, "%d", &amount); err == nil {
			c.Detector.TradeAmount = amount
		}
	}
	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Scan.Interval = d
		}
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Metrics.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks that all required configuration values are present and
// valid.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required (set RATES_URL env var or pass -url)")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if c.Scan.Interval < 0 {
		return fmt.Errorf("scan.interval must not be negative")
	}
	if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be a valid port number")
	}
	if c.Metrics.Path == "" {
		return fmt.Errorf("metrics.path is required")
	}
	return nil
}
