// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	lfxerrors "github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

type messager interface {
	Message() string
}

// statusFor maps a domain error to the HTTP status returned to callers
func statusFor(err error) int {
	var (
		validation     lfxerrors.Validation
		notFound       lfxerrors.NotFound
		backendWrite   lfxerrors.BackendWrite
		authProvider   lfxerrors.AuthProvider
		upstreamLookup lfxerrors.UpstreamLookup
		proxy          lfxerrors.Proxy
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &notFound), errors.As(err, &backendWrite):
		return http.StatusBadRequest
	case errors.As(err, &authProvider), errors.As(err, &upstreamLookup):
		return http.StatusBadGateway
	case errors.As(err, &proxy):
		if proxy.StatusCode != 0 {
			return proxy.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// detailFor returns the caller-facing message, without wrapped causes
func detailFor(err error) string {
	var m messager
	if errors.As(err, &m) {
		return m.Message()
	}
	return "internal error"
}

// writeError logs err and writes a failure body with the mapped status
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status, log.PriorityCritical())
	} else {
		slog.WarnContext(ctx, "request failed", "error", err, "status", status)
	}

	writeJSON(ctx, w, status, model.SubscriptionResult{
		Status: model.StatusFailure,
		Detail: detailFor(err),
	})
}
