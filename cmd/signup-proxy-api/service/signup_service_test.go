// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/migration"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

type testEnv struct {
	svc        *SignupService
	store      *mock.MockCredentialStore
	provider   *mock.MockTokenProvider
	crm        *mock.MockCRM
	bulk       *mock.MockFlagBackend
	forwarder  *mock.MockForwarder
	membership *mock.MockMembershipReader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	table, err := migration.Default()
	require.NoError(t, err)

	env := &testEnv{
		store:      mock.NewMockCredentialStore(),
		provider:   mock.NewMockTokenProvider(20 * time.Minute),
		crm:        mock.NewMockCRM(),
		bulk:       mock.NewMockFlagBackend("Supporting Cast", "Radiolab"),
		forwarder:  mock.NewMockForwarder(),
		membership: mock.NewMockMembershipReader(),
	}

	metrics := port.NoopSignupMetrics{}
	tokenCache := service.NewTokenCache(env.store, env.provider)
	crmBackend := service.NewCRMBackend(env.crm)
	router := service.NewSubscriptionRouter(
		service.WithResolver(service.NewListIdentifierResolver(table)),
		service.WithCredentialSource(tokenCache),
		service.WithSubscriptionBackend(crmBackend),
		service.WithLegacyForwarder(env.forwarder),
		service.WithRouterMetrics(metrics),
	)

	env.svc = NewSignupService(&Dependencies{
		CredentialStore:     env.store,
		Credentials:         tokenCache,
		Router:              router,
		MembershipProcessor: service.NewMembershipEventTranslator(env.membership, env.bulk, tokenCache, "Supporting Cast"),
		PopupProcessor:      service.NewPopupFormTranslator(router, service.WithPopupMetrics(metrics)),
		CRMCatalog:          crmBackend,
		BulkCatalog:         env.bulk,
	})
	return env
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func jsonRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSignupService_Healthcheck(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.svc.Healthcheck(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSignupService_Subscribe(t *testing.T) {
	tests := []struct {
		name       string
		request    func() *http.Request
		setup      func(env *testEnv)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "json body",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"test-002@example.com","list":"Radiolab"}`)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "subscribed", "detail": "Radiolab successfully added"},
		},
		{
			name: "form body",
			request: func() *http.Request {
				return formRequest("/subscribe", url.Values{"email": {"test-003@example.com"}, "list": {"Radiolab"}})
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "subscribed", "detail": "Radiolab successfully added"},
		},
		{
			name: "json array of lists",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"a@example.com","list":["Radiolab","On The Media"]}`)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "subscribed", "detail": "On The Media successfully added"},
		},
		{
			name: "migrated legacy id",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"a@example.com","list":"178fa0b138"}`)
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "subscribed", "detail": "On The Media successfully added"},
		},
		{
			name:       "no data",
			request:    func() *http.Request { return formRequest("/subscribe", url.Values{}) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": constants.ErrMsgNoData},
		},
		{
			name:       "json without email",
			request:    func() *http.Request { return jsonRequest("/subscribe", `{"list":"Stations"}`) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": constants.ErrMsgMissingField},
		},
		{
			name:       "form without list",
			request:    func() *http.Request { return formRequest("/subscribe", url.Values{"email": {"test@example.com"}}) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": constants.ErrMsgMissingField},
		},
		{
			name:       "invalid email",
			request:    func() *http.Request { return jsonRequest("/subscribe", `{"email":"example.com","list":"Radiolab"}`) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": constants.ErrMsgInvalidEmail},
		},
		{
			name:       "malformed json",
			request:    func() *http.Request { return jsonRequest("/subscribe", `{"email":`) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": "request body is not valid JSON"},
		},
		{
			name:       "unknown list",
			request:    func() *http.Request { return jsonRequest("/subscribe", `{"email":"a@example.com","list":"Nope"}`) },
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"status": "failure", "detail": "list not found: Nope"},
		},
		{
			name:       "identity provider down",
			request:    func() *http.Request { return jsonRequest("/subscribe", `{"email":"a@example.com","list":"Radiolab"}`) },
			setup:      func(env *testEnv) { env.provider.Err = stderrors.New("connection refused") },
			wantStatus: http.StatusBadGateway,
			wantBody:   map[string]any{"status": "failure", "detail": "unable to obtain access token"},
		},
		{
			name: "unmigrated legacy id is proxied",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"a@example.com","list":"abcdef0123"}`)
			},
			wantStatus: http.StatusOK,
			wantBody: map[string]any{
				"status":            "subscribed",
				"additional_detail": constants.ProxiedMarker,
				"detail":            constants.MsgProxiedSuccess,
			},
		},
		{
			name: "legacy error status passes through",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"a@example.com","list":"abcdef0123"}`)
			},
			setup: func(env *testEnv) {
				env.forwarder.StatusCode = http.StatusBadRequest
				env.forwarder.Body = map[string]any{"detail": "Member Exists"}
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"detail": "Member Exists", "additional_detail": constants.ProxiedMarker},
		},
		{
			name: "legacy platform unreachable",
			request: func() *http.Request {
				return jsonRequest("/subscribe", `{"email":"a@example.com","list":"abcdef0123"}`)
			},
			setup:      func(env *testEnv) { env.forwarder.Err = stderrors.New("dial tcp: timeout") },
			wantStatus: http.StatusBadGateway,
			wantBody:   map[string]any{"status": "failure", "detail": "legacy platform unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := httptest.NewRecorder()
			env.svc.Subscribe(rec, tt.request())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeBody(t, rec))
		})
	}
}

func TestSignupService_SubscribeCreatesCRMRecords(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.svc.Subscribe(rec, jsonRequest("/subscribe", `{"email":"new@example.com","list":"Radiolab","source":"homepage"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	contacts := env.crm.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "new@example.com", contacts[0].Email)
	assert.Equal(t, constants.PlaceholderName, contacts[0].LastName)

	memberships := env.crm.Memberships()
	require.Len(t, memberships, 1)
	assert.True(t, memberships[0].Active)
	assert.Equal(t, "homepage", memberships[0].Source)

	assert.Equal(t, 1, env.provider.Calls())
	token, ok := env.store.Value(constants.CredentialTokenKey)
	require.True(t, ok)
	assert.Equal(t, "mock-token-1", token)
}

func TestSignupService_Lists(t *testing.T) {
	t.Run("crm catalog", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.Lists(rec, httptest.NewRequest(http.MethodGet, "/lists", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Lists []string `json:"lists"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.ElementsMatch(t, []string{"Radiolab", "On The Media", "WNYC Daily Newsletter", "Politics Brunch"}, body.Lists)
	})

	t.Run("bulk catalog", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.Lists(rec, httptest.NewRequest(http.MethodGet, "/lists?backend=bulk", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"lists":["Radiolab","Supporting Cast"]}`, rec.Body.String())
	})

	t.Run("unknown backend", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.Lists(rec, httptest.NewRequest(http.MethodGet, "/lists?backend=fax", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("crm failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.crm.SetError(mock.OpListLists, stderrors.New("boom"))
		rec := httptest.NewRecorder()
		env.svc.Lists(rec, httptest.NewRequest(http.MethodGet, "/lists", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "failure", decodeBody(t, rec)["status"])
	})
}

func TestSignupService_SupportingCast(t *testing.T) {
	const event = `{
		"event": "subscription.updated",
		"event_id": "evt_1",
		"webhook_id": "wh_1",
		"timestamp": "2024-03-07T10:00:00Z",
		"subscription": {"id": 11, "status": "suspended", "plan_id": 9, "member_id": "42"}
	}`

	t.Run("writes the membership flag", func(t *testing.T) {
		env := newTestEnv(t)
		env.membership.AddMember(model.Member{ID: "42", Email: "member@example.com", FirstName: "Ada", Status: "suspended"})
		env.membership.AddPlan(model.Plan{ID: "9", Name: "Gold"})

		rec := httptest.NewRecorder()
		env.svc.SupportingCast(rec, jsonRequest("/supporting-cast", event))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

		active, set := env.bulk.Flag("member@example.com", "Supporting Cast")
		require.True(t, set)
		assert.False(t, active)
		assert.Equal(t, "Gold", env.bulk.Attribute("member@example.com", "Supporting Cast Plan"))
	})

	t.Run("lookup failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.membership.AddPlan(model.Plan{ID: "9", Name: "Gold"})

		rec := httptest.NewRecorder()
		env.svc.SupportingCast(rec, jsonRequest("/supporting-cast", event))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "failure", decodeBody(t, rec)["status"])
		_, found := env.bulk.Contact("member@example.com")
		assert.False(t, found)
	})

	t.Run("unknown event acknowledged", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.SupportingCast(rec, jsonRequest("/supporting-cast", `{"event":"invoice.paid"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.SupportingCast(rec, jsonRequest("/supporting-cast", `not json`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSignupService_PopupForm(t *testing.T) {
	t.Run("lead subscribed", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.PopupForm(rec, jsonRequest("/popup-form",
			`{"lead":{"email":"lead@example.com","first_name":"Lea"},"meta":{"lists":"Radiolab++On The Media"}}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "success", "detail": "On The Media successfully added"}, decodeBody(t, rec))
		assert.Len(t, env.crm.Memberships(), 2)
	})

	t.Run("verification address", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.PopupForm(rec, jsonRequest("/popup-form", `{"lead":{"email":"Test@Example.com"},"meta":{"lists":"Radiolab"}}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "success", "detail": constants.MsgAlreadySubscribed}, decodeBody(t, rec))
		assert.Empty(t, env.crm.Calls())
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.svc.PopupForm(rec, jsonRequest("/popup-form", `{"lead":{"email":"nope"},"meta":{"lists":"Radiolab"}}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]any{"status": "failure", "detail": constants.ErrMsgInvalidEmail}, decodeBody(t, rec))
	})
}

func TestSignupService_Probes(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.svc.Livez(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.svc.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	env.store.SetReadyError(stderrors.New("table missing"))
	rec = httptest.NewRecorder()
	env.svc.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
