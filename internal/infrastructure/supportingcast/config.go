// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package supportingcast

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for the membership platform client
type Config struct {
	BaseURL  string        `env:"SUPPORTING_CAST_BASE_URL"`
	APIToken string        `env:"SUPPORTING_CAST_API_TOKEN"`
	Timeout  time.Duration `env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://supportingcast.fm",
		Timeout: 30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse supporting cast config: %w", err)
	}
	return config, nil
}
