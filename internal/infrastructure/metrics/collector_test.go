// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SubscriptionOutcome("api", "subscribed")
	c.SubscriptionOutcome("api", "subscribed")
	c.SubscriptionOutcome("popup-form", "failure")
	c.Proxied(http.StatusOK)
	c.TokenMinted("success")
	c.SoftLookupFailed()
	c.SoftLookupFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.subscriptions.WithLabelValues("api", "subscribed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.subscriptions.WithLabelValues("popup-form", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.proxied.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokenMints.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.softLookups))
}

func TestCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.TokenMinted("failure")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `signup_proxy_token_mints_total{result="failure"} 1`)
}
