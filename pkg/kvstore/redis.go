package kvstore

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/angelmondragon/moda-storefront/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Key(parts ...string) string
}

// Redis stores values under moda:kv:<key> without expiry.
type Redis struct {
	client redisClient
}

func NewRedis(client redisClient) (*Redis, error) {
	if client == nil {
		return nil, errors.New("kvstore: redis client is required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.client.Key("kv", key))
	if errors.Is(err, pkgredis.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.Key("kv", key), value, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.Key("kv", key))
}
