// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// AuthProvider is returned when the identity provider refuses to mint an
// access token. It is fatal to the request that needed the token.
type AuthProvider struct {
	base
}

// Error returns the error message for AuthProvider.
func (a AuthProvider) Error() string {
	return a.error()
}

// NewAuthProvider creates a new AuthProvider error with the provided message.
func NewAuthProvider(message string, err ...error) AuthProvider {
	return AuthProvider{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// BackendWrite is returned when a create or update against a marketing
// backend came back with an error payload or a non-2xx status.
type BackendWrite struct {
	base
}

// Error returns the error message for BackendWrite.
func (b BackendWrite) Error() string {
	return b.error()
}

// NewBackendWrite creates a new BackendWrite error with the provided message.
func NewBackendWrite(message string, err ...error) BackendWrite {
	return BackendWrite{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Proxy is returned when the legacy platform could not be reached at all.
// Non-2xx answers from the legacy platform are not errors; they are passed
// through to the caller verbatim.
type Proxy struct {
	base
	StatusCode int
}

// Error returns the error message for Proxy.
func (p Proxy) Error() string {
	return p.error()
}

// NewProxy creates a new Proxy error with the provided message.
func NewProxy(message string, statusCode int, err ...error) Proxy {
	return Proxy{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		StatusCode: statusCode,
	}
}

// UpstreamLookup is returned when an auxiliary read (member or plan profile)
// fails. Webhook processing stops without writing anything.
type UpstreamLookup struct {
	base
}

// Error returns the error message for UpstreamLookup.
func (u UpstreamLookup) Error() string {
	return u.error()
}

// NewUpstreamLookup creates a new UpstreamLookup error with the provided message.
func NewUpstreamLookup(message string, err ...error) UpstreamLookup {
	return UpstreamLookup{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// SoftLookup marks an optional lookup (email verification) that failed.
// Callers log it and continue without the looked-up data.
type SoftLookup struct {
	base
}

// Error returns the error message for SoftLookup.
func (s SoftLookup) Error() string {
	return s.error()
}

// NewSoftLookup creates a new SoftLookup error with the provided message.
func NewSoftLookup(message string, err ...error) SoftLookup {
	return SoftLookup{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
