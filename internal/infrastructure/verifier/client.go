// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package verifier classifies email addresses through a NeverBounce-style
// single check API.
package verifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/go-querystring/query"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/httpclient"
)

const upstreamName = "email verifier"

// statusSuccess is the API status of a completed check
const statusSuccess = "success"

// Config holds the configuration for the verifier client
type Config struct {
	BaseURL string        `env:"EMAIL_VERIFIER_BASE_URL"`
	APIKey  string        `env:"EMAIL_VERIFIER_API_KEY"`
	Timeout time.Duration `env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.neverbounce.com",
		Timeout: 30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse email verifier config: %w", err)
	}
	return config, nil
}

type checkOptions struct {
	Key   string `url:"key"`
	Email string `url:"email"`
}

type checkResponse struct {
	Status  string `json:"status"`
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// Client is a port.EmailVerifier
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// NewClient creates a verifier client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EMAIL_VERIFIER_API_KEY is required")
	}
	return &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpclient.Config{Timeout: cfg.Timeout}),
	}, nil
}

// Verify runs a single check. A check the API could not complete is an error.
func (c *Client) Verify(ctx context.Context, email string) (*model.EmailValidity, error) {
	values, err := query.Values(checkOptions{Key: c.config.APIKey, Email: email})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verifier query: %w", err)
	}
	reqURL := strings.TrimRight(c.config.BaseURL, "/") + "/v4/single/check?" + values.Encode()

	var resp checkResponse
	if _, err := c.httpClient.JSON(ctx, http.MethodGet, reqURL, nil, &resp, nil); err != nil {
		return nil, httpclient.MapHTTPError(ctx, upstreamName, err)
	}

	if resp.Status != statusSuccess {
		return nil, errors.NewUnexpected(fmt.Sprintf("email verifier returned status %q: %s", resp.Status, resp.Message))
	}

	return &model.EmailValidity{Status: resp.Status, Classification: resp.Result}, nil
}

var _ port.EmailVerifier = (*Client)(nil)
