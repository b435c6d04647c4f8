// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Signup sources recorded on subscription memberships
const (
	// SignupSourceAPI is used for direct form/JSON posts to the subscribe endpoint
	SignupSourceAPI = "api"

	// SignupSourcePopupForm is used for pop-up form webhook leads
	SignupSourcePopupForm = "popup-form"

	// SignupSourceMembership is used for membership platform webhook events
	SignupSourceMembership = "supporting-cast"
)

// SignupSourceOrDefault returns source, or SignupSourceAPI when it is blank.
func SignupSourceOrDefault(source string) string {
	if source == "" {
		return SignupSourceAPI
	}
	return source
}
