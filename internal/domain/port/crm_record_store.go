// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

// CRMRecordStore is the record-level API of the CRM backend.
// Query results are ordered by last modification ascending, then ID ascending.
type CRMRecordStore interface {
	// FindListsByName returns newsletter lists with exactly this name
	FindListsByName(ctx context.Context, name string) ([]model.NewsletterList, error)
	// ListNewsletterLists returns every newsletter list
	ListNewsletterLists(ctx context.Context) ([]model.NewsletterList, error)
	// FindContactsByEmail returns contacts with exactly this email
	FindContactsByEmail(ctx context.Context, email string) ([]model.Contact, error)
	// CreateContact creates a contact record
	CreateContact(ctx context.Context, contact *model.Contact) (*model.WriteResult, error)
	// FindMemberships returns memberships linking the contact to the list
	FindMemberships(ctx context.Context, contactID, listID string) ([]model.SubscriptionMembership, error)
	// CreateMembership creates a membership record
	CreateMembership(ctx context.Context, membership *model.SubscriptionMembership) (*model.WriteResult, error)
	// UpdateMembership updates an existing membership by ID
	UpdateMembership(ctx context.Context, membership *model.SubscriptionMembership) error
}
