// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package dynamodb

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// Config holds the DynamoDB credential table settings
type Config struct {
	Region string `env:"AWS_REGION"`

	// Endpoint overrides the service endpoint, e.g. a local DynamoDB
	Endpoint string `env:"DYNAMODB_ENDPOINT"`

	Table string `env:"REFRESH_TOKEN_TABLE"`

	// Static keys are optional; the default AWS credential chain is used otherwise
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    string `env:"AWS_SESSION_TOKEN"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Region: "us-east-1",
		Table:  constants.DefaultCredentialTable,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse dynamodb config: %w", err)
	}
	return config, nil
}
