package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a shared fixed-window store for multi-instance
// deployments. The counter keeps incrementing past the limit inside a
// window, which changes nothing about allow/deny decisions.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on the given client. The prefix
// namespaces keys per endpoint.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Allow implements Store using INCR with an expiry set on the first
// request of each window. Redis handles expiry itself, so no sweep is
// needed.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := s.prefix + ":" + key

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, k, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}
