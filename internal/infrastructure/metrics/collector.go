// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics records signup outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
)

const namespace = "signup_proxy"

// Collector is the Prometheus port.SignupMetrics
type Collector struct {
	subscriptions *prometheus.CounterVec
	proxied       *prometheus.CounterVec
	tokenMints    *prometheus.CounterVec
	softLookups   prometheus.Counter
}

// NewCollector creates a Collector and registers it on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "List writes by signup source and result.",
		}, []string{"source", "result"}),
		proxied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxied_signups_total",
			Help:      "Signups forwarded to the legacy platform by response status.",
		}, []string{"status_code"}),
		tokenMints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_mints_total",
			Help:      "Identity provider token requests by result.",
		}, []string{"result"}),
		softLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "soft_lookup_failures_total",
			Help:      "Email verifier lookups that failed and were ignored.",
		}),
	}

	reg.MustRegister(c.subscriptions, c.proxied, c.tokenMints, c.softLookups)
	return c
}

// SubscriptionOutcome implements port.SignupMetrics
func (c *Collector) SubscriptionOutcome(source, result string) {
	c.subscriptions.WithLabelValues(source, result).Inc()
}

// Proxied implements port.SignupMetrics
func (c *Collector) Proxied(statusCode int) {
	c.proxied.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// TokenMinted implements port.SignupMetrics
func (c *Collector) TokenMinted(result string) {
	c.tokenMints.WithLabelValues(result).Inc()
}

// SoftLookupFailed implements port.SignupMetrics
func (c *Collector) SoftLookupFailed() {
	c.softLookups.Inc()
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ port.SignupMetrics = (*Collector)(nil)
