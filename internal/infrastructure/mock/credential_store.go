// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the service ports for
// local runs and tests.
package mock

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// MockCredentialStore is an in-memory port.CredentialStore with error simulation
type MockCredentialStore struct {
	values   map[string]string
	getErrs  map[string]error
	putErrs  map[string]error
	readyErr error
	puts     []string
	mu       sync.RWMutex
}

// NewMockCredentialStore creates an empty credential store
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{
		values:  make(map[string]string),
		getErrs: make(map[string]error),
		putErrs: make(map[string]error),
	}
}

// Get returns the value stored under key
func (s *MockCredentialStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.getErrs[key]; ok {
		return "", err
	}
	value, ok := s.values[key]
	if !ok {
		return "", errors.NewNotFound("credential key not found: " + key)
	}
	return value, nil
}

// Put stores value under key
func (s *MockCredentialStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts = append(s.puts, key)
	if err, ok := s.putErrs[key]; ok {
		return err
	}
	s.values[key] = value
	return nil
}

// IsReady returns the configured readiness error, if any
func (s *MockCredentialStore) IsReady(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readyErr
}

// Set seeds a value without recording a Put
func (s *MockCredentialStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Value returns the stored value for assertions
func (s *MockCredentialStore) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// SetGetError makes Get fail for key
func (s *MockCredentialStore) SetGetError(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErrs[key] = err
}

// SetPutError makes Put fail for key
func (s *MockCredentialStore) SetPutError(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErrs[key] = err
}

// SetReadyError makes IsReady fail
func (s *MockCredentialStore) SetReadyError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readyErr = err
}

// Puts returns the keys written, in order
func (s *MockCredentialStore) Puts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.puts...)
}

var _ port.CredentialStore = (*MockCredentialStore)(nil)
