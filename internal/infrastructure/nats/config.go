// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// Config holds the NATS connection and credential bucket settings
type Config struct {
	URL           string        `env:"NATS_URL"`
	Timeout       time.Duration `env:"NATS_TIMEOUT"`
	MaxReconnect  int           `env:"NATS_MAX_RECONNECT"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT"`

	// Bucket is the JetStream key-value bucket holding the credential
	Bucket string `env:"REFRESH_TOKEN_TABLE"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
		Bucket:        constants.DefaultCredentialTable,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse NATS config: %w", err)
	}
	return config, nil
}
