// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import "context"

// CredentialStore is a durable key/value store shared by all service
// instances. It holds the cached identity provider credential.
type CredentialStore interface {
	// Get returns the value stored under key, or an errors.NotFound when absent
	Get(ctx context.Context, key string) (string, error)
	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key, value string) error
	// IsReady reports whether the store is reachable
	IsReady(ctx context.Context) error
}
