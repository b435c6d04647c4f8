// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Credential store layout. The token and its expiration are written as two
// separate entries.
const (
	// CredentialTokenKey holds the cached access token (string)
	CredentialTokenKey = "MarketingCloudAuthToken"

	// CredentialExpirationKey holds the absolute expiration (epoch seconds)
	CredentialExpirationKey = "MarketingCloudAuthTokenExpiration"

	// DefaultCredentialTable is the store table/bucket used when REFRESH_TOKEN_TABLE is unset
	DefaultCredentialTable = "MarketingCloudAuthTokenStore"
)

// Credential store implementations
const (
	CredentialStoreDynamoDB = "dynamodb"
	CredentialStoreNATS     = "nats"
	CredentialStoreRedis    = "redis"
	CredentialStoreMock     = "mock"
)
