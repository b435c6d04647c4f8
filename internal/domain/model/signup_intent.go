// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// EmailValidity is the classification returned by the email verifier
type EmailValidity struct {
	Status         string `json:"status"`
	Classification string `json:"classification"`
}

// SignupIntent is the canonical, normalized form of a signup request.
// Build it with NewSignupIntent; it is not mutated afterwards.
type SignupIntent struct {
	Email      string
	Lists      []string
	Source     string
	FirstName  string
	LastName   string
	Validity   *EmailValidity
	Attributes map[string]string
}

// SignupOption customizes a SignupIntent at construction time
type SignupOption func(*SignupIntent)

// WithName sets the subscriber's first and last name
func WithName(first, last string) SignupOption {
	return func(s *SignupIntent) {
		s.FirstName = strings.TrimSpace(first)
		s.LastName = strings.TrimSpace(last)
	}
}

// WithValidity attaches a verifier classification
func WithValidity(v *EmailValidity) SignupOption {
	return func(s *SignupIntent) {
		s.Validity = v
	}
}

// WithAttribute adds a free-form backend attribute
func WithAttribute(key, value string) SignupOption {
	return func(s *SignupIntent) {
		if s.Attributes == nil {
			s.Attributes = make(map[string]string)
		}
		s.Attributes[key] = value
	}
}

// NewSignupIntent builds a SignupIntent. Lists are deduplicated preserving the
// first occurrence; blank entries are dropped. An empty source defaults to "api".
func NewSignupIntent(email string, lists []string, source string, opts ...SignupOption) SignupIntent {
	intent := SignupIntent{
		Email:  strings.TrimSpace(email),
		Lists:  DedupeLists(lists),
		Source: constants.SignupSourceOrDefault(strings.TrimSpace(source)),
	}
	for _, opt := range opts {
		opt(&intent)
	}
	return intent
}

// SplitListField splits a "++" delimited list field into its identifiers.
func SplitListField(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return DedupeLists(strings.Split(raw, constants.ListDelimiter))
}

// DedupeLists trims, drops blanks and removes duplicates keeping first occurrence order.
func DedupeLists(lists []string) []string {
	seen := make(map[string]struct{}, len(lists))
	out := make([]string, 0, len(lists))
	for _, l := range lists {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
