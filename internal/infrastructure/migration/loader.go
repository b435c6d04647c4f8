// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package migration loads the legacy list migration table.
package migration

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

//go:embed default_table.yaml
var defaultTable []byte

var legacyIDRegex = regexp.MustCompile(constants.LegacyListIDPattern)

// Config selects where the table comes from
type Config struct {
	// Path overrides the embedded table when set
	Path string `env:"MIGRATION_TABLE_PATH"`
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse migration config: %w", err)
	}
	return config, nil
}

type tableFile struct {
	Lists []tableEntry `yaml:"lists"`
}

type tableEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Migrated bool   `yaml:"migrated"`
}

// Load reads the table from cfg.Path, or the embedded default when unset.
// The result is validated.
func Load(cfg Config) (*model.MigrationTable, error) {
	data := defaultTable
	if cfg.Path != "" {
		raw, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration table %s: %w", cfg.Path, err)
		}
		data = raw
	}
	return Parse(data)
}

// Default returns the embedded table
func Default() (*model.MigrationTable, error) {
	return Parse(defaultTable)
}

// Parse decodes and validates a YAML migration table
func Parse(data []byte) (*model.MigrationTable, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode migration table: %w", err)
	}

	mapping := make(map[string]string, len(file.Lists))
	var migrated []string
	for _, entry := range file.Lists {
		id := strings.TrimSpace(entry.ID)
		if !legacyIDRegex.MatchString(id) {
			return nil, fmt.Errorf("invalid legacy list id %q", entry.ID)
		}
		if _, dup := mapping[id]; dup {
			return nil, fmt.Errorf("duplicate legacy list id %q", id)
		}
		mapping[id] = strings.TrimSpace(entry.Name)
		if entry.Migrated {
			migrated = append(migrated, id)
		}
	}

	table := model.NewMigrationTable(mapping, migrated)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
