// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redis stores the cached credential in Redis.
package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-redis/redis/v8"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

// Config holds the Redis connection settings
type Config struct {
	Address  string `env:"REDIS_ADDRESS"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
	PoolSize int    `env:"REDIS_POOL_SIZE"`

	// KeyPrefix namespaces the credential keys
	KeyPrefix string `env:"REFRESH_TOKEN_TABLE"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Address:   "localhost:6379",
		PoolSize:  10,
		KeyPrefix: constants.DefaultCredentialTable,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse redis config: %w", err)
	}
	return config, nil
}

// CredentialStore is a port.CredentialStore over Redis strings
type CredentialStore struct {
	rdb    *redis.Client
	prefix string
}

// NewCredentialStore connects to Redis and checks it answers
func NewCredentialStore(ctx context.Context, cfg Config) (*CredentialStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.NewServiceUnavailable("failed to connect to Redis", err)
	}

	slog.InfoContext(ctx, "redis credential store configured", "address", cfg.Address)

	return &CredentialStore{rdb: rdb, prefix: cfg.KeyPrefix}, nil
}

// Close closes the connection pool
func (s *CredentialStore) Close() error {
	return s.rdb.Close()
}

func (s *CredentialStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get returns the value stored under key
func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return "", errors.NewNotFound("credential key not found: " + key)
		}
		slog.ErrorContext(ctx, "failed to read credential key", "key", key, "error", err)
		return "", errors.NewServiceUnavailable("failed to read credential key", err)
	}
	return value, nil
}

// Put stores value under key without expiry; staleness is judged by the
// stored expiration value.
func (s *CredentialStore) Put(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.NewServiceUnavailable("failed to write credential key", err)
	}
	return nil
}

// IsReady pings the server
func (s *CredentialStore) IsReady(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewServiceUnavailable("redis is not reachable", err)
	}
	return nil
}

var _ port.CredentialStore = (*CredentialStore)(nil)
