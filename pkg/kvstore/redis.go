package kvstore

import (
	"context"
	"errors"

	pkgredis "github.com/medinasouk/storefront-backend/pkg/redis"
)

// RedisBackend stores shopper state under the namespaced state keyspace.
type RedisBackend struct {
	client *pkgredis.Client
}

func NewRedisBackend(client *pkgredis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Read(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.client.StateKey(key))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *RedisBackend) Write(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.StateKey(key), value, 0)
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.StateKey(key))
}
