// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the signup proxy service.
package model

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// Credential is a short-lived bearer credential issued by the identity provider
type Credential struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the credential has less than margin of life left at now.
// A credential with no token or no expiration is always expired.
func (c *Credential) Expired(now time.Time, margin time.Duration) bool {
	if c == nil || c.AccessToken == "" || c.ExpiresAt.IsZero() {
		return true
	}
	return c.ExpiresAt.Sub(now) < margin
}

// WithCredential returns a copy of ctx carrying the credential for outbound backend calls.
func WithCredential(ctx context.Context, cred *Credential) context.Context {
	return context.WithValue(ctx, constants.CredentialContextKey, cred)
}

// CredentialFromContext returns the credential stored by WithCredential, if any.
func CredentialFromContext(ctx context.Context) (*Credential, bool) {
	cred, ok := ctx.Value(constants.CredentialContextKey).(*Credential)
	if !ok || cred == nil {
		return nil, false
	}
	return cred, true
}
