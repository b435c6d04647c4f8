// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package dynamodb

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

type fakeAPI struct {
	items       map[string]map[string]types.AttributeValue
	tables      []string
	err         error
	describeErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tables = append(f.tables, aws.ToString(in.TableName))
	name := in.Key[attrKeyName].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[name]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tables = append(f.tables, aws.ToString(in.TableName))
	name := in.Item[attrKeyName].(*types.AttributeValueMemberS).Value
	f.items[name] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, f.describeErr
}

func TestCredentialStore_PutWritesTypedAttributes(t *testing.T) {
	api := newFakeAPI()
	store := NewCredentialStoreWithAPI(api, "")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, constants.CredentialTokenKey, "tok"))
	require.NoError(t, store.Put(ctx, constants.CredentialExpirationKey, "1700000000.5"))

	assert.IsType(t, &types.AttributeValueMemberS{}, api.items[constants.CredentialTokenKey][attrKeyValue])
	assert.IsType(t, &types.AttributeValueMemberN{}, api.items[constants.CredentialExpirationKey][attrKeyValue])
	assert.Equal(t, []string{constants.DefaultCredentialTable, constants.DefaultCredentialTable}, api.tables)

	token, err := store.Get(ctx, constants.CredentialTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	expiration, err := store.Get(ctx, constants.CredentialExpirationKey)
	require.NoError(t, err)
	assert.Equal(t, "1700000000.5", expiration)
}

func TestCredentialStore_GetAcceptsStringExpiration(t *testing.T) {
	api := newFakeAPI()
	api.items[constants.CredentialExpirationKey] = map[string]types.AttributeValue{
		attrKeyName:  &types.AttributeValueMemberS{Value: constants.CredentialExpirationKey},
		attrKeyValue: &types.AttributeValueMemberS{Value: "1700000000"},
	}
	store := NewCredentialStoreWithAPI(api, "tokens")

	value, err := store.Get(context.Background(), constants.CredentialExpirationKey)
	require.NoError(t, err)
	assert.Equal(t, "1700000000", value)
}

func TestCredentialStore_GetErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing item", func(t *testing.T) {
		store := NewCredentialStoreWithAPI(newFakeAPI(), "tokens")
		_, err := store.Get(ctx, constants.CredentialTokenKey)
		assert.IsType(t, errors.NotFound{}, err)
	})

	t.Run("item without value", func(t *testing.T) {
		api := newFakeAPI()
		api.items["k"] = map[string]types.AttributeValue{attrKeyName: &types.AttributeValueMemberS{Value: "k"}}
		_, err := NewCredentialStoreWithAPI(api, "tokens").Get(ctx, "k")
		assert.IsType(t, errors.NotFound{}, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		api := newFakeAPI()
		api.items["k"] = map[string]types.AttributeValue{
			attrKeyName:  &types.AttributeValueMemberS{Value: "k"},
			attrKeyValue: &types.AttributeValueMemberBOOL{Value: true},
		}
		_, err := NewCredentialStoreWithAPI(api, "tokens").Get(ctx, "k")
		assert.IsType(t, errors.Unexpected{}, err)
	})

	t.Run("api failure", func(t *testing.T) {
		api := newFakeAPI()
		api.err = stderrors.New("throttled")
		_, err := NewCredentialStoreWithAPI(api, "tokens").Get(ctx, "k")
		assert.IsType(t, errors.ServiceUnavailable{}, err)
	})
}

func TestCredentialStore_PutError(t *testing.T) {
	api := newFakeAPI()
	api.err = stderrors.New("throttled")
	err := NewCredentialStoreWithAPI(api, "tokens").Put(context.Background(), "k", "v")
	assert.IsType(t, errors.ServiceUnavailable{}, err)
}

func TestCredentialStore_IsReady(t *testing.T) {
	api := newFakeAPI()
	store := NewCredentialStoreWithAPI(api, "tokens")
	assert.NoError(t, store.IsReady(context.Background()))

	api.describeErr = stderrors.New("ResourceNotFoundException")
	assert.Error(t, store.IsReady(context.Background()))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint)
	assert.Equal(t, constants.DefaultCredentialTable, cfg.Table)
}
