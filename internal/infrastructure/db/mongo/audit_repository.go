package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

const authEventsCollection = "auth_events"

// AuditRepository implements ports.AuditSink using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record persists an auth event to the auth_events collection.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	_, err := r.db.Collection(authEventsCollection).InsertOne(ctx, eventDocument(event))
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

func eventDocument(event domain.AuthEvent) bson.M {
	doc := bson.M{
		"type":        string(event.Type),
		"username":    event.Username,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.UserID != 0 {
		doc["user_id"] = event.UserID
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}
	return doc
}
