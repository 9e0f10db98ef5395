package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

const auditCollection = "audit_log"

// AuditRepository is the append-only store for security events. It exposes no
// update or delete: rows reference users by id only and outlive the subject
// account.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Action            string             `bson:"action"`
	TenantID          string             `bson:"tenant_id,omitempty"`
	SubjectUserID     string             `bson:"subject_user_id"`
	PerformedByUserID string             `bson:"performed_by_user_id,omitempty"`
	Timestamp         int64              `bson:"timestamp"`
	IPAddress         string             `bson:"ip_address"`
	Details           map[string]string  `bson:"details,omitempty"`
}

func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	doc := auditDoc{
		Action:            string(entry.Action),
		TenantID:          entry.TenantID,
		SubjectUserID:     entry.SubjectUserID,
		PerformedByUserID: entry.PerformedByUserID,
		Timestamp:         entry.Timestamp.Unix(),
		IPAddress:         entry.IPAddress,
		Details:           entry.Details,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListBySubject filters by tenant as well as subject; a foreign tenant's
// admin probing a deleted user's id gets nothing back.
func (r *AuditRepository) ListBySubject(ctx context.Context, tenantID, subjectUserID string) ([]*domain.AuditEntry, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"tenant_id": tenantID, "subject_user_id": subjectUserID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*domain.AuditEntry
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		entries = append(entries, &domain.AuditEntry{
			ID:                doc.ID.Hex(),
			Action:            domain.AuditAction(doc.Action),
			TenantID:          doc.TenantID,
			SubjectUserID:     doc.SubjectUserID,
			PerformedByUserID: doc.PerformedByUserID,
			Timestamp:         unixToTime(doc.Timestamp),
			IPAddress:         doc.IPAddress,
			Details:           doc.Details,
		})
	}
	return entries, cur.Err()
}
