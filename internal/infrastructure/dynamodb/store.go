// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package dynamodb stores the cached credential in a DynamoDB table with one
// item per key (KeyName / KeyValue attributes).
package dynamodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

const (
	attrKeyName  = "KeyName"
	attrKeyValue = "KeyValue"
)

// API is the subset of the DynamoDB client the store uses
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// CredentialStore is a port.CredentialStore over a DynamoDB table
type CredentialStore struct {
	api   API
	table string
	// keys whose values are written as numbers
	numericKeys map[string]struct{}
}

// NewCredentialStore builds an AWS client from cfg and returns the store
func NewCredentialStore(ctx context.Context, cfg Config) (*CredentialStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to load AWS config", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	slog.InfoContext(ctx, "dynamodb credential store configured",
		"table", cfg.Table,
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
	)

	return NewCredentialStoreWithAPI(client, cfg.Table), nil
}

// NewCredentialStoreWithAPI wraps an existing client
func NewCredentialStoreWithAPI(api API, table string) *CredentialStore {
	if table == "" {
		table = constants.DefaultCredentialTable
	}
	return &CredentialStore{
		api:   api,
		table: table,
		numericKeys: map[string]struct{}{
			constants.CredentialExpirationKey: {},
		},
	}
}

// Get returns the KeyValue of the item named key. String and number
// attributes are both accepted.
func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			attrKeyName: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to read credential item", "table", s.table, "key", key, "error", err)
		return "", errors.NewServiceUnavailable("failed to read credential item", err)
	}
	if out == nil || out.Item == nil {
		return "", errors.NewNotFound("credential key not found: " + key)
	}

	switch v := out.Item[attrKeyValue].(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return v.Value, nil
	case nil:
		return "", errors.NewNotFound("credential item has no value: " + key)
	default:
		return "", errors.NewUnexpected(fmt.Sprintf("unsupported attribute type %T for %s", v, key))
	}
}

// Put writes the item named key
func (s *CredentialStore) Put(ctx context.Context, key, value string) error {
	var attr types.AttributeValue = &types.AttributeValueMemberS{Value: value}
	if _, numeric := s.numericKeys[key]; numeric {
		attr = &types.AttributeValueMemberN{Value: value}
	}

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			attrKeyName:  &types.AttributeValueMemberS{Value: key},
			attrKeyValue: attr,
		},
	})
	if err != nil {
		return errors.NewServiceUnavailable("failed to write credential item", err)
	}
	return nil
}

// IsReady checks the table is reachable
func (s *CredentialStore) IsReady(ctx context.Context) error {
	if _, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)}); err != nil {
		return errors.NewServiceUnavailable("dynamodb credential table is not reachable", err)
	}
	return nil
}

var _ port.CredentialStore = (*CredentialStore)(nil)
