// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package supportingcast reads member and plan profiles from the Supporting
// Cast membership platform.
package supportingcast

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/utils"
)

const upstreamName = "supporting cast"

type memberResponse struct {
	ID        model.FlexibleID `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
}

type planResponse struct {
	ID   model.FlexibleID `json:"id"`
	Name string           `json:"name"`
}

// Client is a port.MembershipReader over the Supporting Cast REST API
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
}

// NewClient creates a new Supporting Cast client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("SUPPORTING_CAST_API_TOKEN is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpclient.NewClient(httpclient.Config{Timeout: cfg.Timeout}),
	}
	client.httpClient.AddRoundTripper(&httpclient.StaticTokenRoundTripper{Token: cfg.APIToken})

	return client, nil
}

// Member fetches a member by id
func (c *Client) Member(ctx context.Context, memberID string) (*model.Member, error) {
	var resp memberResponse
	reqURL := fmt.Sprintf("%s/api/v1/members/%s", c.baseURL, url.PathEscape(memberID))
	if _, err := c.httpClient.JSON(ctx, http.MethodGet, reqURL, nil, &resp, nil); err != nil {
		return nil, httpclient.MapHTTPError(ctx, upstreamName, err)
	}

	member := &model.Member{
		ID:        resp.ID.String(),
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Status:    resp.Status,
	}
	createdAt, err := utils.ParseRFC3339(resp.CreatedAt)
	if err != nil {
		slog.WarnContext(ctx, "unparsable member creation date", "member_id", memberID, "created_at", resp.CreatedAt)
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	member.CreatedAt = createdAt
	return member, nil
}

// Plan fetches a plan by id
func (c *Client) Plan(ctx context.Context, planID string) (*model.Plan, error) {
	var resp planResponse
	reqURL := fmt.Sprintf("%s/api/v1/plans/%s", c.baseURL, url.PathEscape(planID))
	if _, err := c.httpClient.JSON(ctx, http.MethodGet, reqURL, nil, &resp, nil); err != nil {
		return nil, httpclient.MapHTTPError(ctx, upstreamName, err)
	}
	return &model.Plan{ID: resp.ID.String(), Name: resp.Name}, nil
}

var _ port.MembershipReader = (*Client)(nil)
