// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package utils provides utility functions for the signup proxy service.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// ParseEpochSeconds parses a numeric epoch timestamp in seconds. Fractional
// seconds are allowed.
func ParseEpochSeconds(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty epoch timestamp")
	}

	secs, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch timestamp %q: %w", value, err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("invalid epoch timestamp %q", value)
	}

	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), nil
}

// FormatEpochSeconds renders t as epoch seconds with sub-second precision.
func FormatEpochSeconds(t time.Time) string {
	secs := float64(t.UnixNano()) / float64(time.Second)
	return strconv.FormatFloat(secs, 'f', -1, 64)
}

// FormatCRMDate formats t as the ISO calendar date used by CRM date fields.
func FormatCRMDate(t time.Time) string {
	return t.Format(constants.CRMDateFormat)
}

// FormatDataExtensionDate formats t the way data extension date columns expect it.
func FormatDataExtensionDate(t time.Time) string {
	return t.Format(constants.DataExtensionDateFormat)
}

// ParseRFC3339 parses an RFC3339 timestamp, returning the zero time for empty input.
func ParseRFC3339(timestamp string) (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %w", err)
	}

	return t, nil
}
