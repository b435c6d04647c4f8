// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

// MembershipReader reads member and plan profiles from the membership platform
type MembershipReader interface {
	Member(ctx context.Context, memberID string) (*model.Member, error)
	Plan(ctx context.Context, planID string) (*model.Plan, error)
}

// EmailVerifier classifies an email address
type EmailVerifier interface {
	Verify(ctx context.Context, email string) (*model.EmailValidity, error)
}
