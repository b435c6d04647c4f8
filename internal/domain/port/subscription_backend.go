// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

// SubscriptionBackend writes a subscription of one email to one canonical list
type SubscriptionBackend interface {
	UpsertSubscription(ctx context.Context, intent model.SignupIntent, listName string) (*model.SubscriptionResult, error)
}

// ListCatalog enumerates the list names a backend knows about
type ListCatalog interface {
	Lists(ctx context.Context) ([]string, error)
}

// FlagBackend is a flag-style bulk email backend keyed by email, with one
// boolean column per list.
type FlagBackend interface {
	UpsertContact(ctx context.Context, contact model.BulkContact) error
	SetListFlag(ctx context.Context, flag model.ListFlag) error
}

// LegacyForwarder proxies a signup to the legacy email platform.
// Non-2xx answers are returned as a response, not an error.
type LegacyForwarder interface {
	Forward(ctx context.Context, list, email string) (*model.ProxiedResponse, error)
}
