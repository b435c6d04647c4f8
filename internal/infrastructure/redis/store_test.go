// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

func setupTestStore(t *testing.T) (*CredentialStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Address = mr.Addr()
	store, err := NewCredentialStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestCredentialStore_PutThenGet(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, constants.CredentialTokenKey, "tok"))
	require.NoError(t, store.Put(ctx, constants.CredentialExpirationKey, "1700000000.25"))

	value, err := store.Get(ctx, constants.CredentialExpirationKey)
	require.NoError(t, err)
	assert.Equal(t, "1700000000.25", value)

	raw, err := mr.Get(constants.DefaultCredentialTable + ":" + constants.CredentialTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", raw)
	assert.Zero(t, mr.TTL(constants.DefaultCredentialTable+":"+constants.CredentialTokenKey))
}

func TestCredentialStore_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.IsType(t, errors.NotFound{}, err)
}

func TestCredentialStore_ServerDown(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.IsReady(ctx))

	mr.Close()

	_, err := store.Get(ctx, constants.CredentialTokenKey)
	assert.IsType(t, errors.ServiceUnavailable{}, err)
	assert.IsType(t, errors.ServiceUnavailable{}, store.Put(ctx, constants.CredentialTokenKey, "x"))
	assert.Error(t, store.IsReady(ctx))
}

func TestNewCredentialStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := DefaultConfig()
	cfg.Address = addr
	_, err := NewCredentialStore(context.Background(), cfg)
	assert.Error(t, err)
}
