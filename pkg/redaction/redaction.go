// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it is written to logs.
package redaction

import "strings"

// RedactEmail keeps the first character of the local part and the full
// domain: "jane.doe@example.com" becomes "j***@example.com".
// Values without an "@" are fully masked.
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	return email[:1] + "***" + email[at:]
}
