// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	margin := 300 * time.Second

	tests := []struct {
		name     string
		cred     *Credential
		expected bool
	}{
		{
			name:     "nil credential",
			cred:     nil,
			expected: true,
		},
		{
			name:     "missing token",
			cred:     &Credential{ExpiresAt: now.Add(time.Hour)},
			expected: true,
		},
		{
			name:     "missing expiration",
			cred:     &Credential{AccessToken: "tok"},
			expected: true,
		},
		{
			name:     "plenty of life left",
			cred:     &Credential{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)},
			expected: false,
		},
		{
			name:     "inside the margin",
			cred:     &Credential{AccessToken: "tok", ExpiresAt: now.Add(299 * time.Second)},
			expected: true,
		},
		{
			name:     "exactly at the margin",
			cred:     &Credential{AccessToken: "tok", ExpiresAt: now.Add(300 * time.Second)},
			expected: false,
		},
		{
			name:     "already past",
			cred:     &Credential{AccessToken: "tok", ExpiresAt: now.Add(-time.Minute)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cred.Expired(now, margin))
		})
	}
}

func TestCredentialContext(t *testing.T) {
	_, ok := CredentialFromContext(context.Background())
	assert.False(t, ok)

	cred := &Credential{AccessToken: "abc"}
	ctx := WithCredential(context.Background(), cred)

	got, ok := CredentialFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", got.AccessToken)

	_, ok = CredentialFromContext(WithCredential(context.Background(), nil))
	assert.False(t, ok)
}
