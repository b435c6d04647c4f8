// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the signup proxy service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "signup-proxy"

	// DefaultAppName is the path prefix used when APP_NAME is unset
	DefaultAppName = "marketing-cloud-proxy"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"
)

// Implementation sources selected through the environment
const (
	// SourceLive wires the real downstream clients
	SourceLive = "live"
	// SourceMock wires the in-memory implementations (local runs and tests)
	SourceMock = "mock"
)
