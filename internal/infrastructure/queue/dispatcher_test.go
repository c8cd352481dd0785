package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

type captureRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *captureRepo) Insert(_ context.Context, event domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *captureRepo) FindRecent(_ context.Context, _ int64) ([]domain.AuthEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...), nil
}

func (r *captureRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func waitForCount(t *testing.T, repo *captureRepo, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d events, got %d", want, repo.count())
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &captureRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(ctx)

	d.Record(domain.AuthEvent{UserID: "u1", Email: "a@x.com", Kind: domain.EventRegister})
	d.Record(domain.AuthEvent{Email: "nobody@x.com", Kind: domain.EventLoginFailed})

	waitForCount(t, repo, 2)
}

func TestDispatcher_OrdersEventsPerUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &captureRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(ctx)

	kinds := []string{domain.EventRegister, domain.EventLoginOK, domain.EventPasswordChanged, domain.EventLoginOK}
	for _, kind := range kinds {
		d.Record(domain.AuthEvent{UserID: "u1", Email: "a@x.com", Kind: kind})
	}

	waitForCount(t, repo, len(kinds))

	events, _ := repo.FindRecent(context.Background(), int64(len(kinds)))
	for i, kind := range kinds {
		if events[i].Kind != kind {
			t.Fatalf("event %d out of order: expected %s, got %s", i, kind, events[i].Kind)
		}
	}
}
