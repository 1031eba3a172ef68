// Package config defines process configuration structures and loading hooks.
//
// Configuration is layered: compiled-in defaults, then an optional YAML file
// pointed to by NIGHTOWL_CONFIG, then NIGHTOWL_-prefixed environment
// variables. External errors must be wrapped via this package's sentinels.
package config

import (
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the root of the Oura v2 API.
	BaseURL string `koanf:"base_url"`

	// AccessToken authenticates API requests. When empty, the
	// OURA_ACCESS_TOKEN environment variable is consulted as a fallback.
	AccessToken string `koanf:"access_token"`

	// OutputDir is the directory CSV datasets are written to.
	OutputDir string `koanf:"output_dir"`

	// ReportDir is the directory rendered HTML reports are written to.
	ReportDir string `koanf:"report_dir"`

	// Days sets the sync window when no explicit dates are given.
	Days int `koanf:"days"`

	// RequestTimeout bounds a single API request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// MetricsAddr configures the daemon's HTTP listen address, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config populated with defaults. Callers normally go through
// Load, which layers file and environment overrides on top.
func New() *Config {
	c := &Config{
		LogLevel:       "info",
		BaseURL:        "https://api.ouraring.com/v2",
		OutputDir:      "exports/data",
		ReportDir:      "exports/reports",
		Days:           7,
		RequestTimeout: 30 * time.Second,
		MetricsAddr:    ":9090",
	}
	return c
}
