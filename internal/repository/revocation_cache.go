package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationCache fronts the revoked-token table for rapid verification
// checks. It is advisory: a cache miss falls through to the store, and a
// cache failure is never an allow.
type RevocationCache interface {
	MarkRevoked(ctx context.Context, tokenReference string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenReference string) (bool, error)
}

type redisRevocationCache struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationCache returns a Redis-backed cache. A nil client
// yields a cache that never hits.
func NewRedisRevocationCache(client *redis.Client) RevocationCache {
	return &redisRevocationCache{client: client, prefix: "revoked:"}
}

func (c *redisRevocationCache) MarkRevoked(ctx context.Context, tokenReference string, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.prefix+tokenReference, "1", ttl).Err()
}

func (c *redisRevocationCache) IsRevoked(ctx context.Context, tokenReference string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, c.prefix+tokenReference).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
