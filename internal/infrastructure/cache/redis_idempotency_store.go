package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shop/backend/internal/domain/shared"
)

const defaultKeyPrefix = "shop:idempotency:"

// RedisIdempotencyStore shares idempotency records between instances.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore opens a client and verifies the connection.
func NewRedisIdempotencyStore(ctx context.Context, opts *redis.Options) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// NewRedisIdempotencyStoreWithClient wraps an existing client.
func NewRedisIdempotencyStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve claims key with SET NX. When the key exists the stored record is
// returned.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*shared.IdempotencyRecord, bool, error) {
	payload, err := json.Marshal(shared.IdempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, err
	}

	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, payload, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; the caller may retry.
		return &shared.IdempotencyRecord{Fingerprint: fingerprint}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var record shared.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("corrupt idempotency record %q: %w", key, err)
	}
	return &record, false, nil
}

// Complete overwrites the reservation with the final response.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, record shared.IdempotencyRecord, ttl time.Duration) error {
	record.Completed = true
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	return nil
}

// Release deletes key.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
