// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

// PopupFormTranslator turns pop-up form leads into signup intents
type PopupFormTranslator struct {
	router            port.SignupRouter
	verifier          port.EmailVerifier
	metrics           port.SignupMetrics
	verificationEmail string
}

type popupFormTranslatorOption func(*PopupFormTranslator)

// WithEmailVerifier enables best-effort email verification
func WithEmailVerifier(verifier port.EmailVerifier) popupFormTranslatorOption {
	return func(t *PopupFormTranslator) {
		t.verifier = verifier
	}
}

// WithVerificationEmail sets the address the widget vendor uses to test the endpoint
func WithVerificationEmail(email string) popupFormTranslatorOption {
	return func(t *PopupFormTranslator) {
		if email != "" {
			t.verificationEmail = email
		}
	}
}

// WithPopupMetrics sets the metrics recorder
func WithPopupMetrics(metrics port.SignupMetrics) popupFormTranslatorOption {
	return func(t *PopupFormTranslator) {
		t.metrics = metrics
	}
}

// NewPopupFormTranslator creates a translator that routes leads through router
func NewPopupFormTranslator(router port.SignupRouter, opts ...popupFormTranslatorOption) *PopupFormTranslator {
	t := &PopupFormTranslator{
		router:            router,
		metrics:           port.NoopSignupMetrics{},
		verificationEmail: constants.DefaultPopupVerificationEmail,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ProcessLead routes one lead. The vendor's verification address is answered
// without touching any backend.
func (t *PopupFormTranslator) ProcessLead(ctx context.Context, event *model.PopupFormEvent) (*model.RouteOutcome, error) {
	email := strings.TrimSpace(event.Lead.Email)
	if strings.EqualFold(email, t.verificationEmail) {
		slog.InfoContext(ctx, "pop-up form verification request acknowledged")
		return &model.RouteOutcome{
			Result: &model.SubscriptionResult{
				Status: model.StatusSuccess,
				Detail: constants.MsgAlreadySubscribed,
			},
		}, nil
	}

	source := event.Meta.Source
	if source == "" {
		source = constants.SignupSourcePopupForm
	}

	opts := []model.SignupOption{model.WithName(event.Lead.FirstName, event.Lead.LastName)}
	if validity := t.verify(ctx, email); validity != nil {
		opts = append(opts, model.WithValidity(validity))
	}

	intent := model.NewSignupIntent(email, model.SplitListField(event.Meta.Lists), source, opts...)
	return t.router.Route(ctx, intent)
}

// verify returns nil when no verifier is configured or the lookup fails.
func (t *PopupFormTranslator) verify(ctx context.Context, email string) *model.EmailValidity {
	if t.verifier == nil || !IsValidEmail(email) {
		return nil
	}

	validity, err := t.verifier.Verify(ctx, email)
	if err == nil && (validity == nil || validity.Classification == "") {
		err = errors.NewSoftLookup("email verifier returned no classification")
	}
	if err != nil {
		t.metrics.SoftLookupFailed()
		slog.WarnContext(ctx, "email verification failed, continuing without it",
			"error", errors.NewSoftLookup("email verification failed", err),
			log.Email(email),
		)
		return nil
	}
	return validity
}
