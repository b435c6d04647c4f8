// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// TokenFunc returns the bearer token for the request context
type TokenFunc func(ctx context.Context) (string, bool)

// BearerTokenRoundTripper sets the Authorization header from the request
// context. Requests without a token fail before leaving the process.
type BearerTokenRoundTripper struct {
	Token TokenFunc
}

// RoundTrip implements RoundTripper
func (b *BearerTokenRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, ok := b.Token(req.Context())
	if !ok || token == "" {
		return nil, fmt.Errorf("no bearer token available for %s %s", req.Method, req.URL.Path)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return next(req)
}

// StaticTokenRoundTripper sets a fixed Authorization header value
type StaticTokenRoundTripper struct {
	Scheme string
	Token  string
}

// RoundTrip implements RoundTripper
func (s *StaticTokenRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	scheme := s.Scheme
	if scheme == "" {
		scheme = "Bearer"
	}
	req.Header.Set("Authorization", scheme+" "+s.Token)
	return next(req)
}
