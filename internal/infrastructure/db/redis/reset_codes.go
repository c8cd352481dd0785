package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetCodeStore keeps single-use password-reset codes with a TTL.
// Key format: pwdreset:<email>
type ResetCodeStore struct {
	client *redis.Client
}

func NewResetCodeStore(client *redis.Client) *ResetCodeStore {
	return &ResetCodeStore{client: client}
}

func (s *ResetCodeStore) Store(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

// Get returns the stored code, or an empty string when none exists or it
// has expired.
func (s *ResetCodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get reset code: %w", err)
	}
	return code, nil
}

func (s *ResetCodeStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

func (s *ResetCodeStore) key(email string) string {
	return "pwdreset:" + email
}
