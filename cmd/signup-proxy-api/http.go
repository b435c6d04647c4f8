// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/cmd/signup-proxy-api/service"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

const gracefulShutdownTimeout = 25 * time.Second

// newRouter mounts the API under prefix, plus the probes and /metrics at the root
func newRouter(prefix string, svc *service.SignupService, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())

	r.Get("/livez", svc.Livez)
	r.Get("/readyz", svc.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	api := func(r chi.Router) {
		r.Use(middleware.BodyLimitMiddleware(middleware.DefaultMaxBodyBytes))
		r.Get("/", svc.Healthcheck)
		r.Post("/subscribe", svc.Subscribe)
		r.Get("/lists", svc.Lists)
		r.Post("/supporting-cast", svc.SupportingCast)
		r.Post("/popup-form", svc.PopupForm)
	}

	if prefix == "" {
		r.Group(api)
	} else {
		r.Route(prefix, func(r chi.Router) {
			api(r)
			r.Get("/livez", svc.Livez)
			r.Get("/readyz", svc.Readyz)
		})
	}

	return otelhttp.NewHandler(r, constants.ServiceName)
}

// handleHTTPServer starts the server and shuts it down when ctx is done
func handleHTTPServer(ctx context.Context, addr string, handler http.Handler, wg *sync.WaitGroup, errc chan error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}
