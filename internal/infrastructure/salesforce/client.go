// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package salesforce implements the CRM record store over the Salesforce REST API.
package salesforce

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/httpclient"
)

const upstreamName = "salesforce"

// queryOptions is the query string of the SOQL endpoint
type queryOptions struct {
	Q string `url:"q"`
}

// Client is a port.CRMRecordStore backed by the Salesforce REST API. It
// authenticates with its own session, independent of the bulk email
// platform's credential.
type Client struct {
	config     Config
	httpClient *httpclient.Client
	sessions   oauth2.TokenSource
}

type clientOption func(*Client)

// WithSessionSource replaces the OAuth2 session source
func WithSessionSource(sessions oauth2.TokenSource) clientOption {
	return func(c *Client) {
		c.sessions = sessions
	}
}

// NewClient creates a new Salesforce client with the given configuration
func NewClient(cfg Config, opts ...clientOption) (*Client, error) {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultConfig().APIVersion
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}

	client := &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpclient.Config{Timeout: cfg.Timeout}),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.sessions == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		client.sessions = newSessionSource(cfg, &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		})
	} else if cfg.Domain == "" {
		return nil, fmt.Errorf("SF_DOMAIN is required for the Salesforce client")
	}

	client.httpClient.AddRoundTripper(&sessionRoundTripper{sessions: client.sessions})

	return client, nil
}

// EscapeSOQL escapes a value for use inside a single-quoted SOQL literal
func EscapeSOQL(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return r.Replace(value)
}

func (c *Client) query(ctx context.Context, soql string, result any) error {
	values, err := query.Values(queryOptions{Q: soql})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	slog.DebugContext(ctx, "running SOQL query", "soql", soql)

	reqURL := c.config.BaseURL() + "/query?" + values.Encode()
	if _, err := c.httpClient.JSON(ctx, http.MethodGet, reqURL, nil, result, nil); err != nil {
		return httpclient.MapHTTPError(ctx, upstreamName, err)
	}
	return nil
}

// create posts a new sObject. A 400 answer carrying API errors is reported
// as a failed WriteResult rather than an error.
func (c *Client) create(ctx context.Context, object string, record any) (*model.WriteResult, error) {
	reqURL := fmt.Sprintf("%s/sobjects/%s/", c.config.BaseURL(), object)

	var created CreateResponse
	resp, err := c.httpClient.JSON(ctx, http.MethodPost, reqURL, record, &created, nil)
	if err != nil {
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest && resp != nil {
			var apiErrors []APIError
			if jsonErr := json.Unmarshal(resp.Body, &apiErrors); jsonErr == nil {
				slog.WarnContext(ctx, "salesforce rejected record", "object", object, "errors", apiErrors)
				return &model.WriteResult{Success: false, Errors: errorMessages(apiErrors)}, nil
			}
		}
		return nil, httpclient.MapHTTPError(ctx, upstreamName, err)
	}

	return &model.WriteResult{
		ID:      created.ID,
		Success: created.Success,
		Errors:  errorMessages(created.Errors),
	}, nil
}

func errorMessages(apiErrors []APIError) []string {
	if len(apiErrors) == 0 {
		return nil
	}
	out := make([]string, 0, len(apiErrors))
	for _, e := range apiErrors {
		if e.ErrorCode != "" {
			out = append(out, fmt.Sprintf("%s: %s", e.ErrorCode, e.Message))
			continue
		}
		out = append(out, e.Message)
	}
	return out
}

// FindListsByName returns newsletter lists with exactly this name
func (c *Client) FindListsByName(ctx context.Context, name string) ([]model.NewsletterList, error) {
	soql := fmt.Sprintf("SELECT Id, Name FROM %s WHERE Name = '%s' ORDER BY Id", ObjectNewsletter, EscapeSOQL(name))

	var resp QueryResponse[NewsletterRecord]
	if err := c.query(ctx, soql, &resp); err != nil {
		return nil, err
	}
	return toLists(resp.Records), nil
}

// ListNewsletterLists returns every newsletter list
func (c *Client) ListNewsletterLists(ctx context.Context) ([]model.NewsletterList, error) {
	soql := fmt.Sprintf("SELECT Id, Name FROM %s ORDER BY Name", ObjectNewsletter)

	var resp QueryResponse[NewsletterRecord]
	if err := c.query(ctx, soql, &resp); err != nil {
		return nil, err
	}
	return toLists(resp.Records), nil
}

func toLists(records []NewsletterRecord) []model.NewsletterList {
	out := make([]model.NewsletterList, 0, len(records))
	for _, r := range records {
		out = append(out, model.NewsletterList{ID: r.ID, Name: r.Name})
	}
	return out
}

// FindContactsByEmail returns contacts with this email, oldest first
func (c *Client) FindContactsByEmail(ctx context.Context, email string) ([]model.Contact, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Email, FirstName, LastName, Email_Validity__c, LastModifiedDate FROM %s WHERE Email = '%s' ORDER BY LastModifiedDate ASC, Id ASC",
		ObjectContact, EscapeSOQL(email),
	)

	var resp QueryResponse[contactQueryRecord]
	if err := c.query(ctx, soql, &resp); err != nil {
		return nil, err
	}

	out := make([]model.Contact, 0, len(resp.Records))
	for _, r := range resp.Records {
		out = append(out, model.Contact{
			ID:            r.ID,
			Email:         r.Email,
			FirstName:     r.FirstName,
			LastName:      r.LastName,
			EmailValidity: r.EmailValidity,
			LastModified:  r.LastModifiedDate.Time,
		})
	}
	return out, nil
}

// CreateContact creates a Contact
func (c *Client) CreateContact(ctx context.Context, contact *model.Contact) (*model.WriteResult, error) {
	return c.create(ctx, ObjectContact, ContactRecord{
		Email:         contact.Email,
		FirstName:     contact.FirstName,
		LastName:      contact.LastName,
		EmailValidity: contact.EmailValidity,
	})
}

// FindMemberships returns subscriptions linking the contact to the list, oldest first
func (c *Client) FindMemberships(ctx context.Context, contactID, listID string) ([]model.SubscriptionMembership, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Contact__c, Newsletter__c, Active__c, Source__c, Opt_In_Date__c, LastModifiedDate FROM %s WHERE Contact__c = '%s' AND Newsletter__c = '%s' ORDER BY LastModifiedDate ASC, Id ASC",
		ObjectSubscription, EscapeSOQL(contactID), EscapeSOQL(listID),
	)

	var resp QueryResponse[subscriptionQueryRecord]
	if err := c.query(ctx, soql, &resp); err != nil {
		return nil, err
	}

	out := make([]model.SubscriptionMembership, 0, len(resp.Records))
	for _, r := range resp.Records {
		out = append(out, model.SubscriptionMembership{
			ID:           r.ID,
			ContactID:    r.Contact,
			ListID:       r.Newsletter,
			Active:       r.Active,
			Source:       r.Source,
			OptInDate:    r.OptInDate,
			LastModified: r.LastModifiedDate.Time,
		})
	}
	return out, nil
}

// CreateMembership creates a Newsletter_Subscription__c
func (c *Client) CreateMembership(ctx context.Context, membership *model.SubscriptionMembership) (*model.WriteResult, error) {
	return c.create(ctx, ObjectSubscription, SubscriptionRecord{
		Contact:    membership.ContactID,
		Newsletter: membership.ListID,
		Active:     membership.Active,
		Source:     membership.Source,
		OptInDate:  membership.OptInDate,
	})
}

// UpdateMembership patches an existing Newsletter_Subscription__c
func (c *Client) UpdateMembership(ctx context.Context, membership *model.SubscriptionMembership) error {
	if membership.ID == "" {
		return fmt.Errorf("membership id is required for update")
	}
	reqURL := fmt.Sprintf("%s/sobjects/%s/%s", c.config.BaseURL(), ObjectSubscription, membership.ID)

	_, err := c.httpClient.JSON(ctx, http.MethodPatch, reqURL, SubscriptionRecord{
		Active:    membership.Active,
		Source:    membership.Source,
		OptInDate: membership.OptInDate,
	}, nil, nil)
	if err != nil {
		// any answered update that is not 2xx is a rejected write
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) {
			slog.WarnContext(ctx, "salesforce rejected subscription update",
				"membership_id", membership.ID,
				"status_code", statusErr.StatusCode,
			)
			return errors.NewBackendWrite(fmt.Sprintf("salesforce rejected update with status %d", statusErr.StatusCode), err)
		}
		return httpclient.MapHTTPError(ctx, upstreamName, err)
	}
	return nil
}

var _ port.CRMRecordStore = (*Client)(nil)
