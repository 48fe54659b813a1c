package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds the latest known status of each order for fast polling.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderID string) string { return "order:status:" + orderID }

func (r *RedisCache) SetStatus(ctx context.Context, orderID string, status string) error {
	if err := r.rdb.Set(ctx, statusKey(orderID), status, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set status: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return nil
}

func (r *RedisCache) GetStatus(ctx context.Context, orderID string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, statusKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: redis get status: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return val, true, nil
}

var _ usecase.StatusCache = (*RedisCache)(nil)
