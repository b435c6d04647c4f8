// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// Config holds the application-level settings
type Config struct {
	// AppName is the path prefix of every route
	AppName string `env:"APP_NAME"`

	// BackendSource selects live downstream clients or in-memory mocks
	BackendSource string `env:"BACKEND_SOURCE"`

	// CredentialStoreSource selects the shared credential store
	CredentialStoreSource string `env:"CREDENTIAL_STORE_SOURCE"`

	// MembershipListName is the bulk backend list written by membership webhooks
	MembershipListName string `env:"MEMBERSHIP_LIST_NAME"`

	// PopupVerificationEmail is the address the pop-up vendor probes with
	PopupVerificationEmail string `env:"POPUP_VERIFICATION_EMAIL"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		AppName:                constants.DefaultAppName,
		BackendSource:          constants.SourceLive,
		CredentialStoreSource:  constants.CredentialStoreDynamoDB,
		MembershipListName:     "Supporting Cast",
		PopupVerificationEmail: constants.DefaultPopupVerificationEmail,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse application config: %w", err)
	}
	config.AppName = strings.Trim(config.AppName, "/")
	return config, nil
}

// PathPrefix returns the mount point of the API, e.g. /marketing-cloud-proxy
func (c Config) PathPrefix() string {
	if c.AppName == "" {
		return ""
	}
	return "/" + c.AppName
}
