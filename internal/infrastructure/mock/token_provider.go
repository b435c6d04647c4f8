// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
)

// MockTokenProvider mints sequential fake tokens
type MockTokenProvider struct {
	TTL   time.Duration
	Err   error
	calls int
	mu    sync.Mutex
}

// NewMockTokenProvider creates a provider issuing tokens valid for ttl
func NewMockTokenProvider(ttl time.Duration) *MockTokenProvider {
	return &MockTokenProvider{TTL: ttl}
}

// MintToken returns a new token or the configured error
func (p *MockTokenProvider) MintToken(ctx context.Context) (*model.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return &model.Credential{
		AccessToken: fmt.Sprintf("mock-token-%d", p.calls),
		ExpiresAt:   time.Now().Add(p.TTL),
	}, nil
}

// Calls returns how many times MintToken was invoked
func (p *MockTokenProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

var _ port.TokenProvider = (*MockTokenProvider)(nil)
