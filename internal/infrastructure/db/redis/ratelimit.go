package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window counter per key.
// Key format: ratelimit:<route>:<ip>
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
}

func NewRateLimiter(client *redis.Client, window time.Duration, max int64) *RateLimiter {
	return &RateLimiter{client: client, window: window, max: max}
}

// Allow increments the window counter and reports whether the caller is
// still under the limit. The expiry is set when the window opens, so the
// counter resets max attempts per window rather than sliding.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "ratelimit:" + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.max, nil
}
