// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// ListKind tells how a list identifier must be handled
type ListKind int

const (
	// ListKindNative is a canonical list name known to the CRM backend
	ListKindNative ListKind = iota
	// ListKindLegacyMigrated is a legacy identifier whose list now lives in the CRM backend
	ListKindLegacyMigrated
	// ListKindLegacyUnmigrated is a legacy identifier still served by the legacy platform
	ListKindLegacyUnmigrated
)

// String returns the string representation of the list kind
func (k ListKind) String() string {
	switch k {
	case ListKindNative:
		return "native"
	case ListKindLegacyMigrated:
		return "legacy_migrated"
	case ListKindLegacyUnmigrated:
		return "legacy_unmigrated"
	default:
		return "unknown"
	}
}

// ListClassification is the result of classifying one list identifier.
// CanonicalName is set for native and migrated lists.
type ListClassification struct {
	Kind          ListKind
	Identifier    string
	CanonicalName string
}
