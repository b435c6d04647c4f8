// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Membership platform webhook event types
const (
	MembershipSubscriptionCreatedEvent = "subscription.created"
	MembershipSubscriptionUpdatedEvent = "subscription.updated"
	MembershipSubscriptionDeletedEvent = "subscription.deleted"
)

// MembershipStatusActive is the member status that keeps the list flag set
const MembershipStatusActive = "active"

// DefaultPopupVerificationEmail is the address the pop-up form provider uses
// for its verification handshake
const DefaultPopupVerificationEmail = "test@example.com"

// ProxiedMarker is the additional_detail value attached to proxied responses
const ProxiedMarker = "proxied"
