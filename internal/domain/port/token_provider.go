// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
)

// TokenProvider mints a fresh credential from the identity provider
type TokenProvider interface {
	MintToken(ctx context.Context) (*model.Credential, error)
}

// CredentialSource hands out a credential that is valid for at least the
// configured safety margin.
type CredentialSource interface {
	AcquireValidCredential(ctx context.Context) (*model.Credential, error)
}
