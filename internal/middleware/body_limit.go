// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP middlewares of the signup proxy.
package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes bounds form, JSON and webhook payloads
const DefaultMaxBodyBytes int64 = 1 << 20

// BodyLimitMiddleware caps the readable request body at limit bytes.
// Handlers see a read error once the cap is exceeded.
func BodyLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
