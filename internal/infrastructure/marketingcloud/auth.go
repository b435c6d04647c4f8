// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package marketingcloud implements the identity provider and the flag-style
// data extension backend of the bulk email platform.
package marketingcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
)

// TokenProvider mints access tokens with the OAuth2 client credentials grant
type TokenProvider struct {
	config     Config
	oauth      clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
}

// NewTokenProvider creates a TokenProvider for the configured tenant
func NewTokenProvider(cfg Config) (*TokenProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DefaultTokenTTL == 0 {
		cfg.DefaultTokenTTL = DefaultConfig().DefaultTokenTTL
	}

	params := url.Values{}
	if cfg.AccountID != "" {
		params.Set("account_id", cfg.AccountID)
	}

	return &TokenProvider{
		config: cfg,
		oauth: clientcredentials.Config{
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			TokenURL:       cfg.TokenURL(),
			EndpointParams: params,
			AuthStyle:      oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}, nil
}

// MintToken requests a new access token
func (p *TokenProvider) MintToken(ctx context.Context) (*model.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("no access token in token response")
	}

	expiresAt := p.expiry(ctx, token)
	slog.InfoContext(ctx, "access token minted", "expires_at", expiresAt.Format(time.RFC3339))

	return &model.Credential{
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// expiry prefers the token response, then the JWT exp claim, then the default TTL
func (p *TokenProvider) expiry(ctx context.Context, token *oauth2.Token) time.Time {
	if !token.Expiry.IsZero() {
		return token.Expiry
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.AccessToken, &claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	slog.WarnContext(ctx, "no expiry in token response, using default TTL", "ttl", p.config.DefaultTokenTTL)
	return p.now().Add(p.config.DefaultTokenTTL)
}

var _ port.TokenProvider = (*TokenProvider)(nil)
