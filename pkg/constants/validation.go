// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines validation constants and formats for the signup proxy service.
package constants

const (
	// EmailPattern is the syntactic local@domain.tld check applied before any network call
	EmailPattern = `^[^@]+@[^@]+\.[^@]+`

	// LegacyListIDPattern matches legacy platform list identifiers
	LegacyListIDPattern = `^[0-9a-fA-F]{10}$`

	// ListDelimiter separates multiple list identifiers in a single field
	ListDelimiter = "++"

	// PlaceholderName is used for unset contact name fields
	PlaceholderName = "Unknown"
)

// Date formats used by the downstream backends
const (
	// CRMDateFormat is the ISO date used for CRM opt-in dates
	CRMDateFormat = "2006-01-02"

	// DataExtensionDateFormat is the timestamp format of data extension date columns
	DataExtensionDateFormat = "1/2/2006 3:04:05 PM"
)

// Response messages
const (
	ErrMsgNoData         = "No email or list was provided"
	ErrMsgMissingField   = "List or email was not provided"
	ErrMsgInvalidEmail   = "Email address is invalid"
	ErrMsgAddContact     = "error adding Contact"
	ErrMsgAddMember      = "error adding subscription member"
	ErrMsgUpdateMember   = "error updating subscription"
	MsgProxiedSuccess    = "Email successfully added"
	MsgAlreadySubscribed = "already subscribed"
)
