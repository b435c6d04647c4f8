// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// SubscriptionStatus values reported back to callers
const (
	StatusSubscribed = "subscribed"
	StatusFailure    = "failure"
	StatusSuccess    = "success"
)

// SubscriptionResult is the result of writing one list for one email
type SubscriptionResult struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// ProxiedResponse is the legacy platform's answer passed through to the caller
type ProxiedResponse struct {
	StatusCode int
	Body       map[string]any
}

// RouteOutcome is what the router returns: either a subscription result or a
// proxied legacy response.
type RouteOutcome struct {
	Result  *SubscriptionResult
	Proxied *ProxiedResponse
}

// IsProxied reports whether the request was forwarded to the legacy platform
func (o *RouteOutcome) IsProxied() bool {
	return o != nil && o.Proxied != nil
}
