// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/utils"
)

// CRMBackend writes subscriptions to the CRM by reconciling contact and
// membership records: find or create the contact, then create or reactivate
// the membership linking it to the list.
type CRMBackend struct {
	records port.CRMRecordStore
	now     func() time.Time
}

type crmBackendOption func(*CRMBackend)

// WithCRMClock sets the time source used for opt-in dates
func WithCRMClock(now func() time.Time) crmBackendOption {
	return func(b *CRMBackend) {
		b.now = now
	}
}

// NewCRMBackend creates a CRMBackend over the given record store
func NewCRMBackend(records port.CRMRecordStore, opts ...crmBackendOption) *CRMBackend {
	b := &CRMBackend{
		records: records,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// UpsertSubscription subscribes intent.Email to listName.
func (b *CRMBackend) UpsertSubscription(ctx context.Context, intent model.SignupIntent, listName string) (*model.SubscriptionResult, error) {
	ctx = log.AppendCtx(ctx, slog.String("list", listName))

	// Step 1: resolve the list
	lists, err := b.records.FindListsByName(ctx, listName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query newsletter list", "error", err)
		return nil, err
	}
	if len(lists) == 0 {
		slog.WarnContext(ctx, "newsletter list not found")
		return nil, errors.NewNotFound(fmt.Sprintf("list not found: %s", listName))
	}
	list := lists[0]

	// Step 2: find or create the contact
	contactID, err := b.ensureContact(ctx, intent)
	if err != nil {
		return nil, err
	}

	// Step 3: create or reactivate the membership
	memberships, err := b.records.FindMemberships(ctx, contactID, list.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query subscription memberships", "error", err)
		return nil, err
	}

	optInDate := utils.FormatCRMDate(b.now())
	source := constants.SignupSourceOrDefault(intent.Source)

	existing := model.LatestMembership(memberships)
	if existing == nil {
		res, err := b.records.CreateMembership(ctx, &model.SubscriptionMembership{
			ContactID: contactID,
			ListID:    list.ID,
			Active:    true,
			Source:    source,
			OptInDate: optInDate,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create subscription membership", "error", err)
			return nil, err
		}
		if res.Failed() {
			slog.ErrorContext(ctx, "subscription membership rejected", "errors", res.Errors)
			return nil, errors.NewBackendWrite(constants.ErrMsgAddMember)
		}

		slog.InfoContext(ctx, "subscription membership created", "membership_id", res.ID)
		return &model.SubscriptionResult{
			Status: model.StatusSubscribed,
			Detail: fmt.Sprintf("%s successfully added", listName),
		}, nil
	}

	updated := *existing
	updated.Active = true
	updated.Source = source
	updated.OptInDate = optInDate
	if err := b.records.UpdateMembership(ctx, &updated); err != nil {
		slog.ErrorContext(ctx, "failed to update subscription membership",
			"membership_id", existing.ID,
			"error", err,
		)
		var unavailable errors.ServiceUnavailable
		if stderrors.As(err, &unavailable) {
			return nil, err
		}
		return nil, errors.NewBackendWrite(constants.ErrMsgUpdateMember, err)
	}

	slog.InfoContext(ctx, "subscription membership updated", "membership_id", existing.ID)
	return &model.SubscriptionResult{
		Status: model.StatusSubscribed,
		Detail: fmt.Sprintf("%s successfully updated", listName),
	}, nil
}

func (b *CRMBackend) ensureContact(ctx context.Context, intent model.SignupIntent) (string, error) {
	contacts, err := b.records.FindContactsByEmail(ctx, intent.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query contacts", "error", err)
		return "", err
	}

	if latest := model.LatestContact(contacts); latest != nil {
		slog.DebugContext(ctx, "reusing existing contact",
			"contact_id", latest.ID,
			"matches", len(contacts),
		)
		return latest.ID, nil
	}

	contact := &model.Contact{
		Email:     intent.Email,
		FirstName: nameOrPlaceholder(intent.FirstName),
		LastName:  nameOrPlaceholder(intent.LastName),
	}
	if intent.Validity != nil {
		contact.EmailValidity = intent.Validity.Classification
	}

	res, err := b.records.CreateContact(ctx, contact)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create contact", "error", err)
		return "", err
	}
	if res.Failed() {
		slog.ErrorContext(ctx, "contact creation rejected",
			"errors", res.Errors,
			log.Email(intent.Email),
		)
		return "", errors.NewBackendWrite(constants.ErrMsgAddContact)
	}

	slog.InfoContext(ctx, "contact created", "contact_id", res.ID)
	return res.ID, nil
}

// Lists returns the names of every newsletter list in the CRM
func (b *CRMBackend) Lists(ctx context.Context) ([]string, error) {
	lists, err := b.records.ListNewsletterLists(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l.Name)
	}
	return names, nil
}

func nameOrPlaceholder(name string) string {
	if name == "" {
		return constants.PlaceholderName
	}
	return name
}
