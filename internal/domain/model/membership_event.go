// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MembershipEvent is a webhook event from the membership platform
type MembershipEvent struct {
	Event        string                 `json:"event"`
	EventID      string                 `json:"event_id"`
	WebhookID    string                 `json:"webhook_id"`
	Timestamp    string                 `json:"timestamp"`
	Subscription MembershipSubscription `json:"subscription"`
}

// MembershipSubscription is the subscription block of a membership event
type MembershipSubscription struct {
	ID       FlexibleID `json:"id"`
	Status   string     `json:"status"`
	PlanID   FlexibleID `json:"plan_id"`
	MemberID FlexibleID `json:"member_id"`
}

// FlexibleID accepts identifiers sent either as JSON strings or numbers
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the identifier as a string
func (f FlexibleID) String() string {
	return string(f)
}

// Member is a membership platform member profile
type Member struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Plan is a membership platform subscription plan
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BulkContact is a row in the flag-style bulk email backend
type BulkContact struct {
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// ListFlag sets one list's boolean column (and related attributes) for an email
type ListFlag struct {
	Email      string
	List       string
	Active     bool
	Attributes map[string]string
}
