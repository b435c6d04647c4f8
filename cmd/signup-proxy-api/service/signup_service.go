// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the HTTP endpoints of the signup proxy.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

const (
	catalogCRM  = "crm"
	catalogBulk = "bulk"
)

// SignupService serves the signup, catalog, webhook and health endpoints
type SignupService struct {
	router      port.SignupRouter
	membership  port.MembershipEventProcessor
	popup       port.PopupFormProcessor
	credentials port.CredentialSource
	catalogs    map[string]port.ListCatalog
	store       port.CredentialStore
}

// NewSignupService returns the endpoint implementation over deps
func NewSignupService(deps *Dependencies) *SignupService {
	return &SignupService{
		router:      deps.Router,
		membership:  deps.MembershipProcessor,
		popup:       deps.PopupProcessor,
		credentials: deps.Credentials,
		catalogs: map[string]port.ListCatalog{
			catalogCRM:  deps.CRMCatalog,
			catalogBulk: deps.BulkCatalog,
		},
		store: deps.CredentialStore,
	}
}

// Healthcheck answers 204 with no body
func (s *SignupService) Healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe routes a form or JSON signup
func (s *SignupService) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	intent, err := parseSubscribe(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := s.router.Route(ctx, intent)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeOutcome(ctx, w, outcome, nil)
}

// Lists returns the list catalog of the CRM, or of the bulk backend with ?backend=bulk
func (s *SignupService) Lists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("backend")
	if name == "" {
		name = catalogCRM
	}
	catalog, ok := s.catalogs[name]
	if !ok || catalog == nil {
		writeError(ctx, w, errors.NewValidation("unknown backend: "+name))
		return
	}

	cred, err := s.credentials.AcquireValidCredential(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lists, err := catalog.Lists(model.WithCredential(ctx, cred))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if lists == nil {
		lists = []string{}
	}

	writeJSON(ctx, w, http.StatusOK, map[string][]string{"lists": lists})
}

// SupportingCast handles membership platform webhooks
func (s *SignupService) SupportingCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event model.MembershipEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := s.membership.ProcessEvent(ctx, &event); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": model.StatusSuccess})
}

// PopupForm handles pop-up form lead webhooks
func (s *SignupService) PopupForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event model.PopupFormEvent
	if err := decodeJSON(r, &event); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := s.popup.ProcessLead(ctx, &event)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// the widget expects "success" rather than "subscribed"
	writeOutcome(ctx, w, outcome, func(res *model.SubscriptionResult) model.SubscriptionResult {
		return model.SubscriptionResult{Status: model.StatusSuccess, Detail: res.Detail}
	})
}

// Livez implements the liveness check
func (s *SignupService) Livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	writeText(w, http.StatusOK, "OK")
}

// Readyz implements the readiness check
func (s *SignupService) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "service not ready", "error", err)
		writeText(w, http.StatusServiceUnavailable, "credential store not ready\n")
		return
	}
	writeText(w, http.StatusOK, "OK\n")
}

func writeOutcome(ctx context.Context, w http.ResponseWriter, outcome *model.RouteOutcome, present func(*model.SubscriptionResult) model.SubscriptionResult) {
	if outcome.IsProxied() {
		writeJSON(ctx, w, outcome.Proxied.StatusCode, outcome.Proxied.Body)
		return
	}
	if outcome == nil || outcome.Result == nil {
		writeError(ctx, w, errors.NewUnexpected("signup produced no result"))
		return
	}

	result := *outcome.Result
	if present != nil {
		result = present(outcome.Result)
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
