// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"sort"
	"strings"
)

// MigrationTable maps legacy list identifiers to canonical list names and
// records which legacy lists have completed migration.
type MigrationTable struct {
	Mapping  map[string]string
	Migrated map[string]struct{}
}

// NewMigrationTable builds a table from a mapping and the ids already migrated
func NewMigrationTable(mapping map[string]string, migrated []string) *MigrationTable {
	t := &MigrationTable{
		Mapping:  make(map[string]string, len(mapping)),
		Migrated: make(map[string]struct{}, len(migrated)),
	}
	for id, name := range mapping {
		t.Mapping[id] = name
	}
	for _, id := range migrated {
		t.Migrated[id] = struct{}{}
	}
	return t
}

// IsMigrated reports whether the legacy id has been migrated
func (t *MigrationTable) IsMigrated(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Migrated[id]
	return ok
}

// CanonicalName returns the canonical list name for a legacy id
func (t *MigrationTable) CanonicalName(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.Mapping[id]
	return name, ok
}

// Validate checks that every migrated id has a canonical mapping.
func (t *MigrationTable) Validate() error {
	if t == nil {
		return fmt.Errorf("migration table is nil")
	}

	var missing []string
	for id := range t.Migrated {
		if name, ok := t.Mapping[id]; !ok || strings.TrimSpace(name) == "" {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("migrated list ids without a canonical name: %s", strings.Join(missing, ", "))
	}
	return nil
}
