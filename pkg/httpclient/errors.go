// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// MapHTTPError maps client errors from an upstream API to domain errors
func MapHTTPError(ctx context.Context, upstream string, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		slog.WarnContext(ctx, "upstream HTTP error occurred",
			"upstream", upstream,
			"status_code", statusErr.StatusCode,
			"message", statusErr.Message,
		)

		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFound(fmt.Sprintf("resource not found in %s", upstream), err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthProvider(fmt.Sprintf("%s rejected the credential", upstream), err)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return errors.NewValidation(fmt.Sprintf("%s validation error: %s", upstream, statusErr.Message), err)
		case http.StatusTooManyRequests:
			return errors.NewServiceUnavailable(fmt.Sprintf("%s rate limited", upstream), err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable(fmt.Sprintf("%s service unavailable", upstream), err)
		default:
			slog.ErrorContext(ctx, "unexpected upstream HTTP status code",
				"upstream", upstream,
				"status_code", statusErr.StatusCode,
			)
			return errors.NewUnexpected(fmt.Sprintf("%s API error", upstream), err)
		}
	}

	// credential failures raised by a RoundTripper before sending
	var authErr errors.AuthProvider
	if stderrors.As(err, &authErr) {
		return errors.NewAuthProvider(authErr.Message(), err)
	}

	// network, timeout, TLS
	slog.ErrorContext(ctx, "upstream request failed with non-HTTP error",
		"upstream", upstream,
		"error", err.Error(),
	)
	return errors.NewServiceUnavailable(fmt.Sprintf("%s request failed", upstream), err)
}
