// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package salesforce

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	client, err := NewClient(cfg, WithSessionSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "sf-token"})))
	require.NoError(t, err)
	return client
}

func TestEscapeSOQL(t *testing.T) {
	assert.Equal(t, `O\'Brien`, EscapeSOQL("O'Brien"))
	assert.Equal(t, `a\\b`, EscapeSOQL(`a\b`))
	assert.Equal(t, `x\\\'`, EscapeSOQL(`x\'`))
	assert.Equal(t, "plain@example.com", EscapeSOQL("plain@example.com"))
}

func TestClient_FindListsByName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/query", r.URL.Path)
		assert.Equal(t, "Bearer sf-token", r.Header.Get("Authorization"))
		assert.Equal(t, "SELECT Id, Name FROM Newsletter__c WHERE Name = 'Death, Sex \\'n Money' ORDER BY Id", r.URL.Query().Get("q"))

		_, _ = w.Write([]byte(`{"totalSize":1,"done":true,"records":[{"Id":"a0A1","Name":"Death, Sex 'n Money"}]}`))
	})

	lists, err := client.FindListsByName(context.Background(), "Death, Sex 'n Money")
	require.NoError(t, err)
	assert.Equal(t, []model.NewsletterList{{ID: "a0A1", Name: "Death, Sex 'n Money"}}, lists)
}

func TestClient_FindContactsByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "WHERE Email = 'jane@example.com' ORDER BY LastModifiedDate ASC, Id ASC")

		_, _ = w.Write([]byte(`{"totalSize":2,"done":true,"records":[
			{"Id":"003A","Email":"jane@example.com","FirstName":"Jane","LastName":"Doe","LastModifiedDate":"2024-01-01T10:00:00.000+0000"},
			{"Id":"003B","Email":"jane@example.com","FirstName":"Unknown","LastName":"Unknown","Email_Validity__c":"valid","LastModifiedDate":"2024-02-01T10:00:00.000+0000"}
		]}`))
	})

	contacts, err := client.FindContactsByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "003B", contacts[1].ID)
	assert.Equal(t, "valid", contacts[1].EmailValidity)
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), contacts[1].LastModified.UTC())
}

func TestClient_CreateContact(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/services/data/v58.0/sobjects/Contact/", r.URL.Path)

			var body map[string]any
			raw, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "jane@example.com", body["Email"])
			assert.Equal(t, "Unknown", body["LastName"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"003NEW","success":true,"errors":[]}`))
		})

		res, err := client.CreateContact(context.Background(), &model.Contact{Email: "jane@example.com", FirstName: "Jane", LastName: "Unknown"})
		require.NoError(t, err)
		assert.False(t, res.Failed())
		assert.Equal(t, "003NEW", res.ID)
	})

	t.Run("rejected with API errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`[{"message":"Email: invalid email address","errorCode":"INVALID_EMAIL_ADDRESS","fields":["Email"]}]`))
		})

		res, err := client.CreateContact(context.Background(), &model.Contact{Email: "bad"})
		require.NoError(t, err)
		assert.True(t, res.Failed())
		assert.Equal(t, []string{"INVALID_EMAIL_ADDRESS: Email: invalid email address"}, res.Errors)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.CreateContact(context.Background(), &model.Contact{Email: "jane@example.com"})
		require.Error(t, err)
		assert.IsType(t, errors.ServiceUnavailable{}, err)
	})
}

func TestClient_FindMemberships(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "WHERE Contact__c = '003A' AND Newsletter__c = 'a0A1'")
		_, _ = w.Write([]byte(`{"totalSize":1,"done":true,"records":[
			{"Id":"a0B1","Contact__c":"003A","Newsletter__c":"a0A1","Active__c":false,"Source__c":"api","Opt_In_Date__c":"2020-01-01","LastModifiedDate":"2020-01-01T00:00:00.000+0000"}
		]}`))
	})

	memberships, err := client.FindMemberships(context.Background(), "003A", "a0A1")
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "a0B1", memberships[0].ID)
	assert.False(t, memberships[0].Active)
	assert.Equal(t, "2020-01-01", memberships[0].OptInDate)
}

func TestClient_CreateMembership(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/sobjects/Newsletter_Subscription__c/", r.URL.Path)
		var body SubscriptionRecord
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, SubscriptionRecord{Contact: "003A", Newsletter: "a0A1", Active: true, Source: "api", OptInDate: "2024-03-07"}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"a0B9","success":true,"errors":[]}`))
	})

	res, err := client.CreateMembership(context.Background(), &model.SubscriptionMembership{
		ContactID: "003A", ListID: "a0A1", Active: true, Source: "api", OptInDate: "2024-03-07",
	})
	require.NoError(t, err)
	assert.Equal(t, "a0B9", res.ID)
}

func TestClient_UpdateMembership(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/services/data/v58.0/sobjects/Newsletter_Subscription__c/a0B1", r.URL.Path)
			var body map[string]any
			raw, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, true, body["Active__c"])
			_, hasContact := body["Contact__c"]
			assert.False(t, hasContact)
			w.WriteHeader(http.StatusNoContent)
		})

		err := client.UpdateMembership(context.Background(), &model.SubscriptionMembership{ID: "a0B1", Active: true, Source: "api", OptInDate: "2024-03-07"})
		require.NoError(t, err)
	})

	statusCases := []struct {
		name   string
		status int
		body   string
	}{
		{"validation rule", http.StatusBadRequest, `[{"message":"bad value","errorCode":"FIELD_CUSTOM_VALIDATION_EXCEPTION"}]`},
		{"record gone", http.StatusNotFound, `[{"message":"entity is deleted","errorCode":"ENTITY_IS_DELETED"}]`},
		{"unavailable", http.StatusServiceUnavailable, `maintenance`},
		{"rate limited", http.StatusTooManyRequests, `[{"message":"limit","errorCode":"REQUEST_LIMIT_EXCEEDED"}]`},
	}
	for _, tc := range statusCases {
		t.Run("rejected "+tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := client.UpdateMembership(context.Background(), &model.SubscriptionMembership{ID: "a0B1"})
			require.Error(t, err)
			assert.IsType(t, errors.BackendWrite{}, err)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		cfg := DefaultConfig()
		cfg.Domain = server.URL
		client, err := NewClient(cfg, WithSessionSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "sf-token"})))
		require.NoError(t, err)

		err = client.UpdateMembership(context.Background(), &model.SubscriptionMembership{ID: "a0B1"})
		require.Error(t, err)
		assert.IsType(t, errors.ServiceUnavailable{}, err)
	})

	t.Run("missing id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		assert.Error(t, client.UpdateMembership(context.Background(), &model.SubscriptionMembership{}))
	})
}

type failingSessions struct{}

func (failingSessions) Token() (*oauth2.Token, error) {
	return nil, stderrors.New("invalid_grant: authentication failure")
}

func TestClient_SessionFailure(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Domain = server.URL
	client, err := NewClient(cfg, WithSessionSource(failingSessions{}))
	require.NoError(t, err)

	_, err = client.ListNewsletterLists(context.Background())
	require.Error(t, err)
	assert.IsType(t, errors.AuthProvider{}, err)
	assert.False(t, called)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(DefaultConfig())
	assert.ErrorContains(t, err, "SF_DOMAIN")

	cfg := DefaultConfig()
	cfg.Domain = "https://example.my.salesforce.com"
	_, err = NewClient(cfg)
	assert.ErrorContains(t, err, "SF_CLIENT_ID")

	cfg.ClientID, cfg.ClientSecret = "id", "secret"
	client, err := NewClient(cfg)
	require.NoError(t, err)
	assert.NotNil(t, client.sessions)
}
