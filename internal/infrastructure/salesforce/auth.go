// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package salesforce

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// sessionSource opens Salesforce API sessions with the grant selected by
// the configuration
type sessionSource struct {
	config     Config
	httpClient *http.Client
	now        func() time.Time
}

// newSessionSource returns a token source that reuses a session until
// SessionTTL elapses
func newSessionSource(cfg Config, httpClient *http.Client) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionSource{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	})
}

// Token implements oauth2.TokenSource
func (s *sessionSource) Token() (*oauth2.Token, error) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)

	var (
		token *oauth2.Token
		err   error
	)
	if s.config.Username != "" {
		oauth := oauth2.Config{
			ClientID:     s.config.ClientID,
			ClientSecret: s.config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  s.config.TokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		token, err = oauth.PasswordCredentialsToken(ctx, s.config.Username, s.config.Password+s.config.SecurityToken)
	} else {
		oauth := clientcredentials.Config{
			ClientID:     s.config.ClientID,
			ClientSecret: s.config.ClientSecret,
			TokenURL:     s.config.TokenURL(),
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		token, err = oauth.Token(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("salesforce session request failed: %w", err)
	}

	if token.Expiry.IsZero() {
		token.Expiry = s.now().Add(s.config.SessionTTL)
	}
	slog.Info("salesforce session opened", "expires_at", token.Expiry.Format(time.RFC3339))
	return token, nil
}

// sessionRoundTripper authorizes every request with the current session.
// Session failures stop the request before it is sent.
type sessionRoundTripper struct {
	sessions oauth2.TokenSource
}

// RoundTrip implements httpclient.RoundTripper
func (s *sessionRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, errors.NewAuthProvider("unable to obtain salesforce session", err)
	}
	token.SetAuthHeader(req)
	return next(req)
}
