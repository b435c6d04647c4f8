// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

// SignupRouter routes a signup intent to the backend that owns each list
type SignupRouter interface {
	Route(ctx context.Context, intent model.SignupIntent) (*model.RouteOutcome, error)
}

// MembershipEventProcessor handles membership platform webhook events
type MembershipEventProcessor interface {
	ProcessEvent(ctx context.Context, event *model.MembershipEvent) error
}

// PopupFormProcessor handles pop-up form webhook leads
type PopupFormProcessor interface {
	ProcessLead(ctx context.Context, event *model.PopupFormEvent) (*model.RouteOutcome, error)
}
