package ports

import (
	"context"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

// AuthEventRecorder accepts audit-trail entries. Record must not block the
// request path; implementations buffer and persist asynchronously.
type AuthEventRecorder interface {
	Record(event domain.AuthEvent)
}

// AuthEventRepository persists and reads back audit-trail entries.
type AuthEventRepository interface {
	Insert(ctx context.Context, event domain.AuthEvent) error
	FindRecent(ctx context.Context, limit int64) ([]domain.AuthEvent, error)
}
