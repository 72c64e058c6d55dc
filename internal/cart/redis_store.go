package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/storefront-cart/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartStateKey(key string) string
}

// RedisStateStore persists carts as Redis strings with an optional TTL.
type RedisStateStore struct {
	client redisKV
	ttl    time.Duration
}

func NewRedisStateStore(client *pkgredis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (r *RedisStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.CartStateKey(key))
	if err != nil {
		if errors.Is(err, pkgredis.ErrNil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get cart state: %w", err)
	}
	return []byte(value), nil
}

func (r *RedisStateStore) Set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.client.CartStateKey(key), payload, r.ttl); err != nil {
		return fmt.Errorf("redis set cart state: %w", err)
	}
	return nil
}

func (r *RedisStateStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.client.CartStateKey(key)); err != nil {
		return fmt.Errorf("redis delete cart state: %w", err)
	}
	return nil
}
