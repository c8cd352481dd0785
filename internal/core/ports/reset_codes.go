package ports

import (
	"context"
	"time"
)

// ResetCodeStore holds single-use password-reset codes with a TTL.
// Get returns an empty string (no error) when no code exists or it expired.
type ResetCodeStore interface {
	Store(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
