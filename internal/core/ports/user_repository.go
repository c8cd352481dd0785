package ports

import (
	"context"
	"time"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

// UserRepository defines the persistence contract for identity records.
// Create must enforce email uniqueness: a duplicate insert returns
// domain.ErrEmailTaken even when a concurrent registration won the race
// after the caller's existence pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetTwoFactor(ctx context.Context, id string, enabled bool) (*domain.User, error)
}
