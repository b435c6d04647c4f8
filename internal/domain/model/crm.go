// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"sort"
	"time"
)

// Contact is a person record in the CRM backend
type Contact struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	EmailValidity string
	LastModified  time.Time
}

// NewsletterList is a named mailing list record in the CRM backend
type NewsletterList struct {
	ID   string
	Name string
}

// SubscriptionMembership links a contact to a newsletter list
type SubscriptionMembership struct {
	ID           string
	ContactID    string
	ListID       string
	Active       bool
	Source       string
	OptInDate    string
	LastModified time.Time
}

// WriteResult is the outcome of a create call against the CRM backend
type WriteResult struct {
	ID      string
	Success bool
	Errors  []string
}

// Failed reports whether the write must be treated as a failure
func (w *WriteResult) Failed() bool {
	return w == nil || !w.Success || len(w.Errors) > 0
}

// LatestContact returns the most recently modified contact, ties broken by ID.
func LatestContact(contacts []Contact) *Contact {
	if len(contacts) == 0 {
		return nil
	}
	sorted := append([]Contact(nil), contacts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].LastModified.Equal(sorted[j].LastModified) {
			return sorted[i].LastModified.Before(sorted[j].LastModified)
		}
		return sorted[i].ID < sorted[j].ID
	})
	latest := sorted[len(sorted)-1]
	return &latest
}

// LatestMembership returns the most recently modified membership, ties broken by ID.
func LatestMembership(memberships []SubscriptionMembership) *SubscriptionMembership {
	if len(memberships) == 0 {
		return nil
	}
	sorted := append([]SubscriptionMembership(nil), memberships...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].LastModified.Equal(sorted[j].LastModified) {
			return sorted[i].LastModified.Before(sorted[j].LastModified)
		}
		return sorted[i].ID < sorted[j].ID
	})
	latest := sorted[len(sorted)-1]
	return &latest
}
