// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package marketingcloud

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for the Marketing Cloud clients
type Config struct {
	// AccountID is the business unit MID sent with token requests
	AccountID string `env:"MC_ACCOUNT_ID"`

	// ClientID and ClientSecret identify the installed package
	ClientID     string `env:"MC_CLIENT_ID"`
	ClientSecret string `env:"MC_CLIENT_SECRET"`

	// AuthURL is the tenant authentication base URL
	AuthURL string `env:"MC_AUTHENTICATION_URL"`

	// BaseAPIURL is the tenant REST base URL
	BaseAPIURL string `env:"MC_BASE_API_URL"`

	// DataExtension is the external key of the preferences data extension
	DataExtension string `env:"MC_DATA_EXTENSION"`

	// DefaultTokenTTL is used when neither the token response nor the token
	// itself carries an expiry
	DefaultTokenTTL time.Duration `env:"MC_DEFAULT_TOKEN_TTL"`

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration `env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		DefaultTokenTTL: 20 * time.Minute,
		Timeout:         30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse marketing cloud config: %w", err)
	}
	return config, nil
}

// TokenURL returns the OAuth2 token endpoint
func (c Config) TokenURL() string {
	return strings.TrimRight(c.AuthURL, "/") + "/v2/token"
}

// Validate checks the settings needed to talk to the tenant
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("MC_CLIENT_ID and MC_CLIENT_SECRET are required")
	}
	if c.AuthURL == "" {
		return fmt.Errorf("MC_AUTHENTICATION_URL is required")
	}
	return nil
}
