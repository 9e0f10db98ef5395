package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

const entryCollection = "time_entries"

// TimeEntryRepository persists work intervals.
type TimeEntryRepository struct {
	coll *mongo.Collection
}

func NewTimeEntryRepository(db *mongo.Database) *TimeEntryRepository {
	return &TimeEntryRepository{coll: db.Collection(entryCollection)}
}

type entryDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   string             `bson:"user_id"`
	TenantID string             `bson:"tenant_id"`
	Date     time.Time          `bson:"date"`
	Start    time.Time          `bson:"start"`
	End      time.Time          `bson:"end"`
	Note     string             `bson:"note,omitempty"`
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	doc := entryDoc{
		UserID:   entry.UserID,
		TenantID: entry.TenantID,
		Date:     entry.Date,
		Start:    entry.Start,
		End:      entry.End,
		Note:     entry.Note,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert time entry: %w", err)
	}

	created := *entry
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TimeEntryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TimeEntry, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *TimeEntryRepository) ListMonthByUser(ctx context.Context, userID string, year int, month time.Month) ([]*domain.TimeEntry, error) {
	filter := bson.M{"user_id": userID}
	addMonthRange(filter, year, month)
	return r.list(ctx, filter)
}

func (r *TimeEntryRepository) ListMonthByTenant(ctx context.Context, tenantID string, year int, month time.Month) ([]*domain.TimeEntry, error) {
	filter := bson.M{"tenant_id": tenantID}
	addMonthRange(filter, year, month)
	return r.list(ctx, filter)
}

// DeleteOwned removes an entry only when it belongs to userID; another user's
// entry id simply does not match.
func (r *TimeEntryRepository) DeleteOwned(ctx context.Context, userID, entryID string) error {
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return domain.ErrEntryNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *TimeEntryRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete user's time entries: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) list(ctx context.Context, filter bson.M) ([]*domain.TimeEntry, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*domain.TimeEntry
	for cur.Next(ctx) {
		var doc entryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode time entry: %w", err)
		}
		entries = append(entries, &domain.TimeEntry{
			ID:       doc.ID.Hex(),
			UserID:   doc.UserID,
			TenantID: doc.TenantID,
			Date:     doc.Date.UTC(),
			Start:    doc.Start.UTC(),
			End:      doc.End.UTC(),
			Note:     doc.Note,
		})
	}
	return entries, cur.Err()
}

func addMonthRange(filter bson.M, year int, month time.Month) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	filter["date"] = bson.M{"$gte": from, "$lt": from.AddDate(0, 1, 0)}
}
