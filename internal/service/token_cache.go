// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/utils"
)

// DefaultExpiryMargin is the minimum remaining lifetime of a cached credential
const DefaultExpiryMargin = 300 * time.Second

// TokenCache hands out identity provider credentials, reusing the one
// persisted in the shared credential store until it is about to expire.
//
// There is no locking: concurrent callers that all see an expired credential
// each mint a new one and the last write wins.
type TokenCache struct {
	store    port.CredentialStore
	provider port.TokenProvider
	metrics  port.SignupMetrics
	margin   time.Duration
	now      func() time.Time
}

type tokenCacheOption func(*TokenCache)

// WithExpiryMargin overrides DefaultExpiryMargin
func WithExpiryMargin(margin time.Duration) tokenCacheOption {
	return func(c *TokenCache) {
		c.margin = margin
	}
}

// WithClock sets the time source used for expiry checks
func WithClock(now func() time.Time) tokenCacheOption {
	return func(c *TokenCache) {
		c.now = now
	}
}

// WithTokenMetrics sets the metrics recorder
func WithTokenMetrics(metrics port.SignupMetrics) tokenCacheOption {
	return func(c *TokenCache) {
		c.metrics = metrics
	}
}

// NewTokenCache creates a TokenCache over the given store and identity provider
func NewTokenCache(store port.CredentialStore, provider port.TokenProvider, opts ...tokenCacheOption) *TokenCache {
	c := &TokenCache{
		store:    store,
		provider: provider,
		metrics:  port.NoopSignupMetrics{},
		margin:   DefaultExpiryMargin,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AcquireValidCredential returns a credential valid for at least the expiry
// margin. Store read failures count as a cold cache; store write failures are
// logged and the freshly minted credential is returned anyway.
func (c *TokenCache) AcquireValidCredential(ctx context.Context) (*model.Credential, error) {
	cached := c.load(ctx)
	if !cached.Expired(c.now(), c.margin) {
		slog.DebugContext(ctx, "using cached credential", "expires_at", cached.ExpiresAt)
		return cached, nil
	}

	slog.InfoContext(ctx, "cached credential missing or expiring, minting a new one")

	fresh, err := c.provider.MintToken(ctx)
	if err != nil {
		c.metrics.TokenMinted("failure")
		slog.ErrorContext(ctx, "identity provider refused to mint a token", "error", err)
		return nil, errors.NewAuthProvider("unable to obtain access token", err)
	}
	c.metrics.TokenMinted("success")

	c.save(ctx, fresh)

	return fresh, nil
}

func (c *TokenCache) load(ctx context.Context) *model.Credential {
	token, err := c.store.Get(ctx, constants.CredentialTokenKey)
	if err != nil {
		c.logReadFailure(ctx, constants.CredentialTokenKey, err)
		return nil
	}

	rawExpiration, err := c.store.Get(ctx, constants.CredentialExpirationKey)
	if err != nil {
		c.logReadFailure(ctx, constants.CredentialExpirationKey, err)
		return nil
	}

	expiresAt, err := utils.ParseEpochSeconds(rawExpiration)
	if err != nil {
		slog.WarnContext(ctx, "stored credential expiration is unparsable", "error", err)
		return nil
	}

	return &model.Credential{AccessToken: token, ExpiresAt: expiresAt}
}

func (c *TokenCache) logReadFailure(ctx context.Context, key string, err error) {
	var notFound errors.NotFound
	if stderrors.As(err, &notFound) {
		slog.DebugContext(ctx, "credential key not present", "key", key)
		return
	}
	slog.WarnContext(ctx, "failed to read credential store, treating credential as expired",
		"key", key,
		"error", err,
	)
}

func (c *TokenCache) save(ctx context.Context, cred *model.Credential) {
	if err := c.store.Put(ctx, constants.CredentialTokenKey, cred.AccessToken); err != nil {
		slog.ErrorContext(ctx, "failed to persist access token",
			"key", constants.CredentialTokenKey,
			"error", err,
			log.PriorityCritical(),
		)
	}
	if err := c.store.Put(ctx, constants.CredentialExpirationKey, utils.FormatEpochSeconds(cred.ExpiresAt)); err != nil {
		slog.ErrorContext(ctx, "failed to persist access token expiration",
			"key", constants.CredentialExpirationKey,
			"error", err,
			log.PriorityCritical(),
		)
	}
}
