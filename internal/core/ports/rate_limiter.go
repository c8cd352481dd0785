package ports

import "context"

// RateLimiter answers whether the caller identified by key may proceed
// within the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
