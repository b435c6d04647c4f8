// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mailchimp forwards signups for lists that still live on the legacy
// Mailchimp opt-in endpoint.
package mailchimp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

const subscribePath = "/opt-in/v1/subscribe/mailchimp"

// Config holds the configuration for the legacy forwarder
type Config struct {
	// Endpoint is the legacy API root, e.g. https://api.example.org
	Endpoint string `env:"NYPR_API_ENDPOINT"`

	Timeout time.Duration `env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse legacy forwarder config: %w", err)
	}
	return config, nil
}

type subscribeRequest struct {
	List  string `json:"list"`
	Email string `json:"email"`
}

// Forwarder is a port.LegacyForwarder posting to the legacy opt-in endpoint
type Forwarder struct {
	url        string
	httpClient *httpclient.Client
}

// NewForwarder creates a Forwarder for the configured endpoint
func NewForwarder(cfg Config) (*Forwarder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("NYPR_API_ENDPOINT is required for legacy forwarding")
	}
	return &Forwarder{
		url:        strings.TrimRight(cfg.Endpoint, "/") + subscribePath,
		httpClient: httpclient.NewClient(httpclient.Config{Timeout: cfg.Timeout}),
	}, nil
}

// Forward sends one {list, email} pair. Any HTTP answer, including errors,
// comes back as a ProxiedResponse; only transport failures are errors.
func (f *Forwarder) Forward(ctx context.Context, list, email string) (*model.ProxiedResponse, error) {
	ctx = log.AppendCtx(ctx, slog.String("legacy_list", list))

	resp, err := f.httpClient.JSON(ctx, http.MethodPost, f.url, subscribeRequest{List: list, Email: email}, nil, nil)
	if err != nil {
		var statusErr *httpclient.StatusError
		if !stderrors.As(err, &statusErr) || resp == nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "signup forwarded to legacy platform",
		"status_code", resp.StatusCode,
		log.Email(email),
	)

	return &model.ProxiedResponse{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(resp.Body),
	}, nil
}

// decodeBody returns the JSON object body, or wraps anything else in detail
func decodeBody(raw []byte) map[string]any {
	body := map[string]any{}
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{"detail": strings.TrimSpace(string(raw))}
	}
	return body
}

var _ port.LegacyForwarder = (*Forwarder)(nil)
