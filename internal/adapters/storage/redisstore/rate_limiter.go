package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a Redis implementation of the RateLimiterRepository port
// using a fixed-window counter.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter wraps an existing Redis client.
func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// IsAllowed atomically counts a request against the key's current window.
func (l *RateLimiter) IsAllowed(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	counterKey := "ratelimit:" + key

	count, err := l.rdb.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis INCR failed: %w", err)
	}

	// First request in the window starts the clock.
	if count == 1 {
		if err := l.rdb.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, fmt.Errorf("redis EXPIRE failed: %w", err)
		}
	}

	return count <= int64(limit), nil
}
