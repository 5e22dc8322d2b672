// Package rediscache caches per-day reservation counts in Redis.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
)

type CountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCountCache(rdb *redis.Client, ttl time.Duration) *CountCache {
	return &CountCache{rdb: rdb, ttl: ttl}
}

func countKey(day time.Time) string {
	return "reservations:count:" + day.Format(entity.DateLayout)
}

func (c *CountCache) Get(ctx context.Context, day time.Time) (int, bool, error) {
	n, err := c.rdb.Get(ctx, countKey(day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *CountCache) Set(ctx context.Context, day time.Time, count int) error {
	return c.rdb.Set(ctx, countKey(day), count, c.ttl).Err()
}

func (c *CountCache) Invalidate(ctx context.Context, day time.Time) error {
	return c.rdb.Del(ctx, countKey(day)).Err()
}
