// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/log"
)

// MembershipEventTranslator turns membership platform subscription events
// into list flag writes on the bulk email backend.
type MembershipEventTranslator struct {
	reader      port.MembershipReader
	backend     port.FlagBackend
	credentials port.CredentialSource
	listName    string
}

// NewMembershipEventTranslator creates a translator writing to listName
func NewMembershipEventTranslator(
	reader port.MembershipReader,
	backend port.FlagBackend,
	credentials port.CredentialSource,
	listName string,
) *MembershipEventTranslator {
	return &MembershipEventTranslator{
		reader:      reader,
		backend:     backend,
		credentials: credentials,
		listName:    listName,
	}
}

// ProcessEvent routes a membership event to its handler. Unknown events are
// acknowledged and ignored.
func (t *MembershipEventTranslator) ProcessEvent(ctx context.Context, event *model.MembershipEvent) error {
	ctx = log.AppendCtx(ctx, slog.String("event", event.Event))
	ctx = log.AppendCtx(ctx, slog.String("event_id", event.EventID))

	slog.InfoContext(ctx, "processing membership webhook event")

	switch event.Event {
	case constants.MembershipSubscriptionCreatedEvent,
		constants.MembershipSubscriptionUpdatedEvent,
		constants.MembershipSubscriptionDeletedEvent:
		return t.syncSubscription(ctx, event)
	default:
		slog.WarnContext(ctx, "unknown membership webhook event type")
		return nil
	}
}

func (t *MembershipEventTranslator) syncSubscription(ctx context.Context, event *model.MembershipEvent) error {
	memberID := event.Subscription.MemberID.String()
	planID := event.Subscription.PlanID.String()
	if memberID == "" || planID == "" {
		return errors.NewValidation("membership event is missing member_id or plan_id")
	}

	var (
		member *model.Member
		plan   *model.Plan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := t.reader.Member(gctx, memberID)
		if err != nil {
			return fmt.Errorf("member %s: %w", memberID, err)
		}
		member = m
		return nil
	})
	g.Go(func() error {
		p, err := t.reader.Plan(gctx, planID)
		if err != nil {
			return fmt.Errorf("plan %s: %w", planID, err)
		}
		plan = p
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "membership lookup failed", "error", err)
		return errors.NewUpstreamLookup("unable to look up membership details", err)
	}

	// the event describes the subscription, the member profile only fills in
	// a missing status; a deleted subscription is never active
	status := event.Subscription.Status
	if status == "" {
		status = member.Status
	}
	active := status == constants.MembershipStatusActive &&
		event.Event != constants.MembershipSubscriptionDeletedEvent
	ctx = log.AppendCtx(ctx, log.Email(member.Email))

	cred, err := t.credentials.AcquireValidCredential(ctx)
	if err != nil {
		return err
	}
	ctx = model.WithCredential(ctx, cred)

	createdAt := member.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if err := t.backend.UpsertContact(ctx, model.BulkContact{
		Email:     member.Email,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		CreatedAt: createdAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to upsert bulk contact", "error", err)
		return err
	}

	if err := t.backend.SetListFlag(ctx, model.ListFlag{
		Email:  member.Email,
		List:   t.listName,
		Active: active,
		Attributes: map[string]string{
			t.listName + " Plan":   plan.Name,
			t.listName + " Status": status,
		},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to set list flag", "error", err)
		return err
	}

	slog.InfoContext(ctx, "membership synced",
		"list", t.listName,
		"active", active,
		"plan", plan.Name,
	)
	return nil
}
