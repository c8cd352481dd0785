package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

const eventCollection = "auth_events"

// AuthEventRepository persists the audit trail of credential operations.
type AuthEventRepository struct {
	coll *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *AuthEventRepository {
	return &AuthEventRepository{coll: db.Collection(eventCollection)}
}

type mongoAuthEvent struct {
	UserID    string `bson:"user_id,omitempty"`
	Email     string `bson:"email"`
	Kind      string `bson:"kind"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *AuthEventRepository) Insert(ctx context.Context, event domain.AuthEvent) error {
	doc := mongoAuthEvent{
		UserID:    event.UserID,
		Email:     event.Email,
		Kind:      event.Kind,
		RemoteIP:  event.RemoteIP,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// FindRecent returns the newest events first.
func (r *AuthEventRepository) FindRecent(ctx context.Context, limit int64) ([]domain.AuthEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find auth events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []domain.AuthEvent
	for cursor.Next(ctx) {
		var doc mongoAuthEvent
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode auth event: %w", err)
		}
		events = append(events, domain.AuthEvent{
			UserID:    doc.UserID,
			Email:     doc.Email,
			Kind:      doc.Kind,
			RemoteIP:  doc.RemoteIP,
			CreatedAt: unixToTime(doc.CreatedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate auth events: %w", err)
	}
	return events, nil
}
