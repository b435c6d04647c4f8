// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/dynamodb"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/mailchimp"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/marketingcloud"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/migration"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/redis"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/salesforce"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/supportingcast"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/infrastructure/verifier"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
)

// Dependencies are the wired components the HTTP layer serves
type Dependencies struct {
	CredentialStore     port.CredentialStore
	Credentials         port.CredentialSource
	Router              port.SignupRouter
	MembershipProcessor port.MembershipEventProcessor
	PopupProcessor      port.PopupFormProcessor
	CRMCatalog          port.ListCatalog
	BulkCatalog         port.ListCatalog

	closers []func() error
}

// Close releases connections held by the dependencies
func (d *Dependencies) Close() {
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			slog.Warn("failed to close dependency", "error", err)
		}
	}
}

// downstream groups the clients selected by BACKEND_SOURCE
type downstream struct {
	tokenProvider port.TokenProvider
	crm           port.CRMRecordStore
	bulk          interface {
		port.FlagBackend
		port.ListCatalog
	}
	forwarder  port.LegacyForwarder
	membership port.MembershipReader
	verifier   port.EmailVerifier
}

// NewDependencies wires every component from the environment
func NewDependencies(ctx context.Context, cfg Config, metrics port.SignupMetrics) (*Dependencies, error) {
	deps := &Dependencies{}

	store, closeStore, err := credentialStore(ctx, cfg.CredentialStoreSource)
	if err != nil {
		return nil, err
	}
	deps.CredentialStore = store
	if closeStore != nil {
		deps.closers = append(deps.closers, closeStore)
	}

	clients, err := downstreamClients(ctx, cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	migrationCfg, err := migration.NewConfigFromEnv()
	if err != nil {
		deps.Close()
		return nil, err
	}
	table, err := migration.Load(migrationCfg)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("invalid migration table: %w", err)
	}

	tokenCache := service.NewTokenCache(store, clients.tokenProvider, service.WithTokenMetrics(metrics))
	crmBackend := service.NewCRMBackend(clients.crm)

	router := service.NewSubscriptionRouter(
		service.WithResolver(service.NewListIdentifierResolver(table)),
		service.WithCredentialSource(tokenCache),
		service.WithSubscriptionBackend(crmBackend),
		service.WithLegacyForwarder(clients.forwarder),
		service.WithRouterMetrics(metrics),
	)

	// a nil verifier disables verification
	popup := service.NewPopupFormTranslator(router,
		service.WithVerificationEmail(cfg.PopupVerificationEmail),
		service.WithPopupMetrics(metrics),
		service.WithEmailVerifier(clients.verifier),
	)

	deps.Credentials = tokenCache
	deps.Router = router
	deps.PopupProcessor = popup
	deps.MembershipProcessor = service.NewMembershipEventTranslator(clients.membership, clients.bulk, tokenCache, cfg.MembershipListName)
	deps.CRMCatalog = crmBackend
	deps.BulkCatalog = clients.bulk

	slog.InfoContext(ctx, "dependencies wired",
		"backend_source", cfg.BackendSource,
		"credential_store", cfg.CredentialStoreSource,
		"legacy_lists", len(table.Mapping),
		"email_verifier", clients.verifier != nil,
	)

	return deps, nil
}

func credentialStore(ctx context.Context, source string) (port.CredentialStore, func() error, error) {
	switch source {
	case constants.CredentialStoreMock:
		slog.InfoContext(ctx, "initializing mock credential store")
		return mock.NewMockCredentialStore(), nil, nil
	case constants.CredentialStoreDynamoDB:
		slog.InfoContext(ctx, "initializing dynamodb credential store")
		cfg, err := dynamodb.NewConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		store, err := dynamodb.NewCredentialStore(ctx, cfg)
		return store, nil, err
	case constants.CredentialStoreNATS:
		slog.InfoContext(ctx, "initializing NATS credential store")
		cfg, err := nats.NewConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		client, err := nats.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return nats.NewCredentialStore(client), client.Close, nil
	case constants.CredentialStoreRedis:
		slog.InfoContext(ctx, "initializing redis credential store")
		cfg, err := redis.NewConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		store, err := redis.NewCredentialStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported credential store: %s", source)
	}
}

func downstreamClients(ctx context.Context, cfg Config) (*downstream, error) {
	switch cfg.BackendSource {
	case constants.SourceMock:
		slog.InfoContext(ctx, "initializing mock downstream backends")
		return &downstream{
			tokenProvider: mock.NewMockTokenProvider(20 * time.Minute),
			crm:           mock.NewMockCRM(),
			bulk:          mock.NewMockFlagBackend(cfg.MembershipListName),
			forwarder:     mock.NewMockForwarder(),
			membership:    mock.NewMockMembershipReader(),
			verifier:      mock.NewMockEmailVerifier(),
		}, nil
	case constants.SourceLive:
		return liveClients(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend source: %s", cfg.BackendSource)
	}
}

func liveClients(ctx context.Context) (*downstream, error) {
	mcCfg, err := marketingcloud.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if err := mcCfg.Validate(); err != nil {
		return nil, err
	}
	tokenProvider, err := marketingcloud.NewTokenProvider(mcCfg)
	if err != nil {
		return nil, err
	}
	dataExtension, err := marketingcloud.NewDataExtensionClient(mcCfg)
	if err != nil {
		return nil, err
	}

	sfCfg, err := salesforce.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	crm, err := salesforce.NewClient(sfCfg)
	if err != nil {
		return nil, err
	}

	legacyCfg, err := mailchimp.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	forwarder, err := mailchimp.NewForwarder(legacyCfg)
	if err != nil {
		return nil, err
	}

	scCfg, err := supportingcast.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	membership, err := supportingcast.NewClient(scCfg)
	if err != nil {
		return nil, err
	}

	clients := &downstream{
		tokenProvider: tokenProvider,
		crm:           crm,
		bulk:          dataExtension,
		forwarder:     forwarder,
		membership:    membership,
	}

	verifierCfg, err := verifier.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if verifierCfg.APIKey == "" {
		slog.InfoContext(ctx, "EMAIL_VERIFIER_API_KEY not set, pop-up leads will not be verified")
		return clients, nil
	}
	emailVerifier, err := verifier.NewClient(verifierCfg)
	if err != nil {
		return nil, err
	}
	clients.verifier = emailVerifier

	return clients, nil
}
