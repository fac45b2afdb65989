package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loginshield/auth-api/internal/core/domain"
)

const auditCollection = "auth_audit"

// MongoAuditRepository appends authentication audit events.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Username  string `bson:"username"`
	Action    string `bson:"action"`
	Outcome   string `bson:"outcome"`
	RequestID string `bson:"request_id,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Username:  event.Username,
		Action:    event.Action,
		Outcome:   event.Outcome,
		RequestID: event.RequestID,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
