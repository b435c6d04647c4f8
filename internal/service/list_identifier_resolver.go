// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"regexp"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

var legacyListIDRegexp = regexp.MustCompile(constants.LegacyListIDPattern)

// ListIdentifierResolver classifies list identifiers against the migration table.
// It is the only place where identifiers are classified.
type ListIdentifierResolver struct {
	table *model.MigrationTable
}

// NewListIdentifierResolver creates a resolver over a validated migration table
func NewListIdentifierResolver(table *model.MigrationTable) *ListIdentifierResolver {
	if table == nil {
		table = model.NewMigrationTable(nil, nil)
	}
	return &ListIdentifierResolver{table: table}
}

// Classify tells whether identifier is a native list name, a migrated legacy
// id (with its canonical name) or a legacy id still served by the legacy platform.
func (r *ListIdentifierResolver) Classify(identifier string) model.ListClassification {
	if !legacyListIDRegexp.MatchString(identifier) {
		return model.ListClassification{
			Kind:          model.ListKindNative,
			Identifier:    identifier,
			CanonicalName: identifier,
		}
	}

	if r.table.IsMigrated(identifier) {
		name, _ := r.table.CanonicalName(identifier)
		return model.ListClassification{
			Kind:          model.ListKindLegacyMigrated,
			Identifier:    identifier,
			CanonicalName: name,
		}
	}

	return model.ListClassification{
		Kind:       model.ListKindLegacyUnmigrated,
		Identifier: identifier,
	}
}
