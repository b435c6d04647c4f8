// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"testing"
)

func TestUnwrap(t *testing.T) {
	rootCause := errors.New("root cause error")

	validationErr := NewValidation("validation failed", rootCause)

	unwrapped := validationErr.Unwrap()
	if unwrapped == nil {
		t.Error("Expected unwrapped error to not be nil")
	}

	if !errors.Is(validationErr, rootCause) {
		t.Error("errors.Is should find the root cause in the wrapped error")
	}

	simpleErr := NewValidation("simple error")
	if simpleErr.Unwrap() != nil {
		t.Error("Expected Unwrap to return nil for error with no wrapped cause")
	}
}

func TestUnwrapWithDifferentErrorTypes(t *testing.T) {
	rootCause := errors.New("connection reset by peer")

	testCases := []struct {
		name string
		err  error
	}{
		{"Validation", NewValidation("validation error", rootCause)},
		{"NotFound", NewNotFound("not found error", rootCause)},
		{"Unexpected", NewUnexpected("unexpected error", rootCause)},
		{"ServiceUnavailable", NewServiceUnavailable("service unavailable", rootCause)},
		{"AuthProvider", NewAuthProvider("token mint rejected", rootCause)},
		{"BackendWrite", NewBackendWrite("error adding Contact", rootCause)},
		{"Proxy", NewProxy("legacy platform unreachable", 502, rootCause)},
		{"UpstreamLookup", NewUpstreamLookup("member lookup failed", rootCause)},
		{"SoftLookup", NewSoftLookup("verifier failed", rootCause)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, rootCause) {
				t.Errorf("errors.Is should find root cause in %s error", tc.name)
			}

			type unwrapper interface {
				Unwrap() error
			}

			u, ok := tc.err.(unwrapper)
			if !ok {
				t.Fatalf("%s error should implement Unwrap()", tc.name)
			}
			if u.Unwrap() == nil {
				t.Errorf("Expected %s error to have an underlying error", tc.name)
			}
		})
	}
}

func TestMessageOmitsCause(t *testing.T) {
	err := NewBackendWrite("error updating subscription", errors.New("status 500"))

	if err.Message() != "error updating subscription" {
		t.Errorf("Message() = %q, want %q", err.Message(), "error updating subscription")
	}
	if err.Error() != "error updating subscription: status 500" {
		t.Errorf("Error() = %q", err.Error())
	}
}
