package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if NIGHTOWL_CONFIG is set
//  3. env (prefix NIGHTOWL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("NIGHTOWL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: NIGHTOWL_BASE_URL, NIGHTOWL_OUTPUT_DIR, ...
	// Map env keys like NIGHTOWL_OUTPUT_DIR -> output_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("NIGHTOWL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "nightowl_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// The token may also come through the variable name the Oura
	// documentation uses, so a bare OURA_ACCESS_TOKEN works.
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv("OURA_ACCESS_TOKEN")
	}

	// Basic validation
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidConfig)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
