// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The signup-proxy-api command serves the newsletter signup proxy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/cmd/signup-proxy-api/service"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

func main() {
	var (
		port    = flag.String("p", "", "listen port (defaults to $PORT or 8080)")
		bind    = flag.String("bind", "", "interface to bind on")
		envFile = flag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// a missing file is fine, real deployments use the environment
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	log.InitStructureLogConfig()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	ctx, cancel := context.WithCancel(context.Background())

	cfg, err := service.NewConfigFromEnv()
	if err != nil {
		slog.ErrorContext(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	deps, err := service.NewDependencies(ctx, cfg, collector)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize dependencies", "error", err, log.PriorityCritical())
		os.Exit(1)
	}
	defer deps.Close()

	svc := service.NewSignupService(deps)

	listenPort := *port
	if listenPort == "" {
		listenPort = os.Getenv("PORT")
	}
	if listenPort == "" {
		listenPort = "8080"
	}
	addr := net.JoinHostPort(*bind, listenPort)

	errc := make(chan error, 1)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	handleHTTPServer(ctx, addr, newRouter(cfg.PathPrefix(), svc, registry), &wg, errc)

	slog.InfoContext(ctx, "exiting", "reason", <-errc)
	cancel()
	wg.Wait()
	slog.InfoContext(ctx, "exited")
}
