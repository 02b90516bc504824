package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter implements a fixed-window counter per key. Used on the public
// status/webhook endpoints; failure to reach redis fails open so a cache
// outage never blocks payment traffic.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

func ClientKey(scope, client string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, client)
}
