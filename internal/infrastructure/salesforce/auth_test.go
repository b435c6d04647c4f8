// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package salesforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

func newTokenServer(t *testing.T, check func(t *testing.T, r *http.Request)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/oauth2/token" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		check(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"00Dsession","instance_url":"https://example.my.salesforce.com","token_type":"Bearer","issued_at":"1709820000000"}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestSessionSource_ClientCredentials(t *testing.T) {
	server, calls := newTokenServer(t, func(t *testing.T, r *http.Request) {
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "sf-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "sf-secret", r.PostForm.Get("client_secret"))
	})

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	cfg.ClientID, cfg.ClientSecret = "sf-id", "sf-secret"

	sessions := newSessionSource(cfg, server.Client())

	first, err := sessions.Token()
	require.NoError(t, err)
	assert.Equal(t, "00Dsession", first.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), first.Expiry, time.Minute)

	second, err := sessions.Token()
	require.NoError(t, err)
	assert.Equal(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(1), calls.Load(), "session is reused until it expires")
}

func TestSessionSource_Password(t *testing.T) {
	server, _ := newTokenServer(t, func(t *testing.T, r *http.Request) {
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "api@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "hunter2TOKEN", r.PostForm.Get("password"))
		assert.Equal(t, "sf-id", r.PostForm.Get("client_id"))
	})

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	cfg.ClientID, cfg.ClientSecret = "sf-id", "sf-secret"
	cfg.Username, cfg.Password, cfg.SecurityToken = "api@example.com", "hunter2", "TOKEN"

	token, err := newSessionSource(cfg, server.Client()).Token()
	require.NoError(t, err)
	assert.Equal(t, "00Dsession", token.AccessToken)
}

func TestSessionSource_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_client_id","error_description":"client identifier invalid"}`))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	cfg.ClientID, cfg.ClientSecret = "bad", "bad"

	_, err := newSessionSource(cfg, server.Client()).Token()
	assert.ErrorContains(t, err, "salesforce session request failed")
}

func TestClient_UsesOwnSession(t *testing.T) {
	var seen string
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/oauth2/token" {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"00Dsession","token_type":"Bearer"}`))
			return
		}
		seen = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"totalSize":0,"done":true,"records":[]}`))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	cfg.ClientID, cfg.ClientSecret = "sf-id", "sf-secret"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	// a bulk platform credential in the context is not sent to the CRM
	ctx := model.WithCredential(context.Background(), &model.Credential{AccessToken: "mc-token"})
	_, err = client.ListNewsletterLists(ctx)
	require.NoError(t, err)
	_, err = client.ListNewsletterLists(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Bearer 00Dsession", seen)
	assert.Equal(t, int32(1), calls.Load())
}
