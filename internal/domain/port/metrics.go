// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

// SignupMetrics records signup processing outcomes
type SignupMetrics interface {
	// SubscriptionOutcome counts one list write by result ("subscribed", "failure")
	SubscriptionOutcome(source, result string)
	// Proxied counts one signup forwarded to the legacy platform
	Proxied(statusCode int)
	// TokenMinted counts one identity provider call by result ("success", "failure")
	TokenMinted(result string)
	// SoftLookupFailed counts one ignored verifier failure
	SoftLookupFailed()
}

// NoopSignupMetrics discards everything
type NoopSignupMetrics struct{}

// SubscriptionOutcome implements SignupMetrics
func (NoopSignupMetrics) SubscriptionOutcome(string, string) {}

// Proxied implements SignupMetrics
func (NoopSignupMetrics) Proxied(int) {}

// TokenMinted implements SignupMetrics
func (NoopSignupMetrics) TokenMinted(string) {}

// SoftLookupFailed implements SignupMetrics
func (NoopSignupMetrics) SoftLookupFailed() {}
