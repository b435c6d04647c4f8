// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package marketingcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/utils"
)

const upstreamName = "marketing cloud"

// DataExtensionClient writes subscriber rows to the preferences data
// extension. Every call needs a credential in the request context.
type DataExtensionClient struct {
	config     Config
	httpClient *httpclient.Client
	now        func() time.Time
}

// NewDataExtensionClient creates a client for the configured data extension
func NewDataExtensionClient(cfg Config) (*DataExtensionClient, error) {
	if cfg.BaseAPIURL == "" || cfg.DataExtension == "" {
		return nil, fmt.Errorf("MC_BASE_API_URL and MC_DATA_EXTENSION are required")
	}

	client := &DataExtensionClient{
		config:     cfg,
		httpClient: httpclient.NewClient(httpclient.Config{Timeout: cfg.Timeout}),
		now:        time.Now,
	}
	client.httpClient.AddRoundTripper(&httpclient.BearerTokenRoundTripper{Token: credentialToken})

	return client, nil
}

func credentialToken(ctx context.Context) (string, bool) {
	cred, ok := model.CredentialFromContext(ctx)
	if !ok {
		return "", false
	}
	return cred.AccessToken, true
}

func (c *DataExtensionClient) rowsetURL() string {
	return fmt.Sprintf("%s/hub/v1/dataevents/key:%s/rowset", strings.TrimRight(c.config.BaseAPIURL, "/"), url.PathEscape(c.config.DataExtension))
}

func (c *DataExtensionClient) upsertRow(ctx context.Context, email string, values map[string]string) error {
	items := []RowsetItem{{
		Keys:   map[string]string{ColumnEmailAddress: email},
		Values: values,
	}}

	_, err := c.httpClient.JSON(ctx, http.MethodPost, c.rowsetURL(), items, nil, nil)
	if err != nil {
		return httpclient.MapHTTPError(ctx, upstreamName, err)
	}
	return nil
}

// UpsertContact creates or updates the subscriber row
func (c *DataExtensionClient) UpsertContact(ctx context.Context, contact model.BulkContact) error {
	values := map[string]string{
		ColumnCreationDate: utils.FormatDataExtensionDate(contact.CreatedAt),
	}
	if contact.FirstName != "" {
		values[ColumnFirstName] = contact.FirstName
	}
	if contact.LastName != "" {
		values[ColumnLastName] = contact.LastName
	}

	if err := c.upsertRow(ctx, contact.Email, values); err != nil {
		slog.ErrorContext(ctx, "failed to upsert data extension contact", "error", err)
		return err
	}
	return nil
}

// SetListFlag flips the list column and stamps the matching opt-in or opt-out date
func (c *DataExtensionClient) SetListFlag(ctx context.Context, flag model.ListFlag) error {
	now := utils.FormatDataExtensionDate(c.now())

	values := map[string]string{
		flag.List: strconv.FormatBool(flag.Active),
	}
	if flag.Active {
		values[flag.List+optInDateSuffix] = now
		values[flag.List+optOutDateSuffix] = ""
	} else {
		values[flag.List+optOutDateSuffix] = now
	}
	for k, v := range flag.Attributes {
		values[k] = v
	}

	if err := c.upsertRow(ctx, flag.Email, values); err != nil {
		slog.ErrorContext(ctx, "failed to set data extension list flag",
			"list", flag.List,
			"error", err,
		)
		return errors.NewBackendWrite(fmt.Sprintf("error setting %s flag", flag.List), err)
	}
	return nil
}

// Lists returns the list names derived from the "<list> Opt In Date" columns
func (c *DataExtensionClient) Lists(ctx context.Context) ([]string, error) {
	fieldsURL := fmt.Sprintf("%s/data/v1/customobjects/key:%s/fields", strings.TrimRight(c.config.BaseAPIURL, "/"), url.PathEscape(c.config.DataExtension))

	var resp FieldsResponse
	if _, err := c.httpClient.JSON(ctx, http.MethodGet, fieldsURL, nil, &resp, nil); err != nil {
		return nil, httpclient.MapHTTPError(ctx, upstreamName, err)
	}

	return ListsFromColumns(resp.Fields), nil
}

// ListsFromColumns keeps columns containing "Opt In" and returns the text
// before it, trimmed and sorted.
func ListsFromColumns(fields []FieldObject) []string {
	seen := make(map[string]struct{})
	lists := make([]string, 0)
	for _, f := range fields {
		idx := strings.Index(f.Name, optInMarker)
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(f.Name[:idx])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		lists = append(lists, name)
	}
	sort.Strings(lists)
	return lists
}

var (
	_ port.FlagBackend = (*DataExtensionClient)(nil)
	_ port.ListCatalog = (*DataExtensionClient)(nil)
)
