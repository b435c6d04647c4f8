// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

var emailRegexp = regexp.MustCompile(constants.EmailPattern)

// SubscriptionRouter decides, per list identifier, which backend owns the
// list and drives the writes.
type SubscriptionRouter struct {
	resolver    *ListIdentifierResolver
	credentials port.CredentialSource
	backend     port.SubscriptionBackend
	forwarder   port.LegacyForwarder
	metrics     port.SignupMetrics
}

type subscriptionRouterOption func(*SubscriptionRouter)

// WithResolver sets the list identifier resolver
func WithResolver(resolver *ListIdentifierResolver) subscriptionRouterOption {
	return func(r *SubscriptionRouter) {
		r.resolver = resolver
	}
}

// WithCredentialSource sets where backend credentials come from
func WithCredentialSource(credentials port.CredentialSource) subscriptionRouterOption {
	return func(r *SubscriptionRouter) {
		r.credentials = credentials
	}
}

// WithSubscriptionBackend sets the backend that owns native and migrated lists
func WithSubscriptionBackend(backend port.SubscriptionBackend) subscriptionRouterOption {
	return func(r *SubscriptionRouter) {
		r.backend = backend
	}
}

// WithLegacyForwarder sets the forwarder for unmigrated legacy lists
func WithLegacyForwarder(forwarder port.LegacyForwarder) subscriptionRouterOption {
	return func(r *SubscriptionRouter) {
		r.forwarder = forwarder
	}
}

// WithRouterMetrics sets the metrics recorder
func WithRouterMetrics(metrics port.SignupMetrics) subscriptionRouterOption {
	return func(r *SubscriptionRouter) {
		r.metrics = metrics
	}
}

// NewSubscriptionRouter creates a router with the given options
func NewSubscriptionRouter(opts ...subscriptionRouterOption) *SubscriptionRouter {
	r := &SubscriptionRouter{
		resolver: NewListIdentifierResolver(nil),
		metrics:  port.NoopSignupMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsValidEmail reports whether email passes the syntactic local@domain.tld check
func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// Route validates the intent and writes it to the owning backends.
//
// The first unmigrated legacy identifier short-circuits the request: it is
// proxied to the legacy platform and the remaining lists are not processed.
// Otherwise every resolved list is written in order and the first failure
// stops processing; lists written before the failure stay written.
func (r *SubscriptionRouter) Route(ctx context.Context, intent model.SignupIntent) (*model.RouteOutcome, error) {
	ctx = log.AppendCtx(ctx, slog.String("source", intent.Source))

	if !IsValidEmail(intent.Email) {
		slog.InfoContext(ctx, "rejecting signup with invalid email", log.Email(intent.Email))
		return nil, errors.NewValidation(constants.ErrMsgInvalidEmail)
	}
	if len(intent.Lists) == 0 {
		return nil, errors.NewValidation(constants.ErrMsgMissingField)
	}

	names := make([]string, 0, len(intent.Lists))
	seen := make(map[string]struct{}, len(intent.Lists))
	for _, identifier := range intent.Lists {
		classification := r.resolver.Classify(identifier)

		if classification.Kind == model.ListKindLegacyUnmigrated {
			return r.proxy(ctx, classification.Identifier, intent.Email)
		}

		if classification.Kind == model.ListKindLegacyMigrated {
			slog.DebugContext(ctx, "legacy list identifier resolved",
				"identifier", classification.Identifier,
				"list", classification.CanonicalName,
			)
		}

		if _, dup := seen[classification.CanonicalName]; dup {
			continue
		}
		seen[classification.CanonicalName] = struct{}{}
		names = append(names, classification.CanonicalName)
	}

	cred, err := r.credentials.AcquireValidCredential(ctx)
	if err != nil {
		return nil, err
	}
	ctx = model.WithCredential(ctx, cred)

	var last *model.SubscriptionResult
	for i, name := range names {
		res, err := r.backend.UpsertSubscription(ctx, intent, name)
		if err != nil {
			r.metrics.SubscriptionOutcome(intent.Source, model.StatusFailure)
			if i > 0 {
				slog.WarnContext(ctx, "signup partially applied",
					"written", names[:i],
					"failed", name,
					"skipped", names[i+1:],
					log.Email(intent.Email),
				)
			}
			return nil, err
		}
		r.metrics.SubscriptionOutcome(intent.Source, model.StatusSubscribed)
		last = res
	}

	slog.InfoContext(ctx, "signup processed", "lists", names, log.Email(intent.Email))
	return &model.RouteOutcome{Result: last}, nil
}

func (r *SubscriptionRouter) proxy(ctx context.Context, listID, email string) (*model.RouteOutcome, error) {
	slog.InfoContext(ctx, "proxying signup to legacy platform", "list_id", listID, log.Email(email))

	resp, err := r.forwarder.Forward(ctx, listID, email)
	if err != nil {
		slog.ErrorContext(ctx, "legacy platform unreachable", "list_id", listID, "error", err)
		return nil, errors.NewProxy("legacy platform unreachable", http.StatusBadGateway, err)
	}

	body := make(map[string]any, len(resp.Body)+2)
	for k, v := range resp.Body {
		body[k] = v
	}
	body["additional_detail"] = constants.ProxiedMarker
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		body["detail"] = constants.MsgProxiedSuccess
	}

	r.metrics.Proxied(resp.StatusCode)

	return &model.RouteOutcome{
		Proxied: &model.ProxiedResponse{StatusCode: resp.StatusCode, Body: body},
	}, nil
}
