// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package salesforce

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for the Salesforce client
type Config struct {
	// Domain is the instance base URL, e.g. https://example.my.salesforce.com
	Domain string `env:"SF_DOMAIN"`

	// APIVersion is the REST API version, e.g. v58.0
	APIVersion string `env:"SF_API_VERSION"`

	// ClientID and ClientSecret identify the connected app
	ClientID     string `env:"SF_CLIENT_ID"`
	ClientSecret string `env:"SF_CLIENT_SECRET"`

	// Username, Password and SecurityToken select the username-password
	// grant. When Username is empty the client credentials grant is used.
	Username      string `env:"SF_USERNAME"`
	Password      string `env:"SF_PASSWORD"`
	SecurityToken string `env:"SF_SECURITY_TOKEN"`

	// SessionTTL is how long a session is reused. Salesforce token
	// responses carry no expiry.
	SessionTTL time.Duration `env:"SF_SESSION_TTL"`

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration `env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		APIVersion: "v58.0",
		SessionTTL: time.Hour,
		Timeout:    30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse salesforce config: %w", err)
	}
	return config, nil
}

// Validate checks the settings needed to open a session
func (c Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("SF_DOMAIN is required for the Salesforce client")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("SF_CLIENT_ID and SF_CLIENT_SECRET are required for the Salesforce client")
	}
	if c.Username != "" && c.Password == "" {
		return fmt.Errorf("SF_PASSWORD is required when SF_USERNAME is set")
	}
	return nil
}

// BaseURL returns the versioned REST root
func (c Config) BaseURL() string {
	version := c.APIVersion
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return fmt.Sprintf("%s/services/data/%s", strings.TrimRight(c.Domain, "/"), version)
}

// TokenURL returns the OAuth2 token endpoint of the instance
func (c Config) TokenURL() string {
	return strings.TrimRight(c.Domain, "/") + "/services/oauth2/token"
}
