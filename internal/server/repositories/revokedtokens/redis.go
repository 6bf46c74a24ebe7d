// Package revokedtokens stores ids of logged-out session tokens in Redis
// until the tokens would have expired anyway.
package revokedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

type RedisRepository struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRedisRepository(rdb redis.Cmdable) *RedisRepository {
	return &RedisRepository{rdb: rdb, now: time.Now}
}

func key(jti string) string {
	return keyPrefix + jti
}

// Revoke stores jti with a TTL equal to the token's remaining lifetime.
// Tokens that already expired need no entry.
func (r *RedisRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}
