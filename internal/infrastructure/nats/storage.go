// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// keyValue is the subset of jetstream.KeyValue the store uses
type keyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
}

// CredentialStore is a port.CredentialStore over a JetStream KV bucket
type CredentialStore struct {
	kv    keyValue
	ready func(ctx context.Context) error
}

// NewCredentialStore creates a store on the client's credential bucket
func NewCredentialStore(client *NATSClient) *CredentialStore {
	return &CredentialStore{kv: client.kv, ready: client.IsReady}
}

// Get returns the value stored under key
func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	if s.kv == nil {
		return "", errors.NewServiceUnavailable("KV bucket not available")
	}

	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return "", errors.NewNotFound("credential key not found: " + key)
		}
		slog.ErrorContext(ctx, "failed to read credential key", "key", key, "error", err)
		return "", errors.NewServiceUnavailable("failed to read credential key", err)
	}

	return string(entry.Value()), nil
}

// Put stores value under key
func (s *CredentialStore) Put(ctx context.Context, key, value string) error {
	if s.kv == nil {
		return errors.NewServiceUnavailable("KV bucket not available")
	}

	rev, err := s.kv.Put(ctx, key, []byte(value))
	if err != nil {
		return errors.NewServiceUnavailable("failed to write credential key", err)
	}

	slog.DebugContext(ctx, "nats storage: credential key written", "key", key, "revision", rev)
	return nil
}

// IsReady reports whether the NATS connection is usable
func (s *CredentialStore) IsReady(ctx context.Context) error {
	if s.ready == nil {
		return nil
	}
	return s.ready(ctx)
}

var _ port.CredentialStore = (*CredentialStore)(nil)
