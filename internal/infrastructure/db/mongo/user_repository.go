package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

const userCollection = "users"

// UserRepository persists users in MongoDB. Emails are stored lowercased so
// the unique (email, tenant) index doubles as the case-insensitive identity
// check. The forced-rotation flag lives in the same document as the hash, so
// UpdatePassword commits both in one atomic write.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

type userDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Email              string             `bson:"email"`
	PasswordHash       string             `bson:"password_hash"`
	Role               string             `bson:"role"`
	TenantID           string             `bson:"tenant_id,omitempty"`
	MustChangePassword bool               `bson:"must_change_password"`
	CreatedByUserID    string             `bson:"created_by_user_id,omitempty"`
	CreatedAt          int64              `bson:"created_at"`
	CreatedByIP        string             `bson:"created_by_ip,omitempty"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	email := strings.ToLower(user.Email)

	// The driver's unique index would catch this too, but checking first
	// keeps the duplicate error deterministic on unindexed deployments.
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email, "tenant_id": user.TenantID})
	if err != nil {
		return nil, fmt.Errorf("check duplicate user: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrUserExists
	}

	doc := userDoc{
		Name:               user.Name,
		Email:              email,
		PasswordHash:       user.PasswordHash,
		Role:               string(user.Role),
		TenantID:           user.TenantID,
		MustChangePassword: user.MustChangePassword,
		CreatedByUserID:    user.CreatedByUserID,
		CreatedAt:          user.CreatedAt.Unix(),
		CreatedByIP:        user.CreatedByIP,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.Email = email
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmailAndTenant(ctx context.Context, email, tenantID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"email":     strings.ToLower(email),
		"tenant_id": tenantID,
		"role":      bson.M{"$ne": string(domain.RoleSuperAdmin)},
	})
}

func (r *UserRepository) FindSuperAdmin(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"email": strings.ToLower(email),
		"role":  string(domain.RoleSuperAdmin),
	})
}

// UpdatePassword replaces the hash and clears the forced-rotation flag in one
// document update; MongoDB guarantees single-document atomicity, so no crash
// can commit one half without the other.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"password_hash":        passwordHash,
			"must_change_password": false,
		},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{
		"tenant_id": tenantID,
		"role":      bson.M{"$ne": string(domain.RoleSuperAdmin)},
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	return users, cur.Err()
}

// DeleteInTenant removes a user scoped to the tenant. A cross-tenant id
// simply fails to match, surfacing as not-found rather than forbidden.
func (r *UserRepository) DeleteInTenant(ctx context.Context, tenantID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{
		"_id":       oid,
		"tenant_id": tenantID,
		"role":      bson.M{"$ne": string(domain.RoleSuperAdmin)},
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"tenant_id": tenantID,
		"role":      bson.M{"$ne": string(domain.RoleSuperAdmin)},
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		Role:               domain.Role(d.Role),
		TenantID:           d.TenantID,
		MustChangePassword: d.MustChangePassword,
		CreatedByUserID:    d.CreatedByUserID,
		CreatedAt:          unixToTime(d.CreatedAt),
		CreatedByIP:        d.CreatedByIP,
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
