package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

const tenantCollection = "tenants"

// TenantRepository persists tenants. Each document carries both the display
// name and its cleaned form, so the two-way collision check ("Burger Hytten"
// vs "burgerhytten") is a single indexed query.
type TenantRepository struct {
	coll *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{coll: db.Collection(tenantCollection)}
}

type tenantDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	NameLower string             `bson:"name_lower"`
	CleanName string             `bson:"clean_name"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	doc := tenantDoc{
		Name:      tenant.Name,
		NameLower: strings.ToLower(tenant.Name),
		CleanName: domain.CleanName(tenant.Name),
		CreatedAt: tenant.CreatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTenantExists
		}
		return nil, fmt.Errorf("insert tenant: %w", err)
	}

	created := *tenant
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}
	var doc tenantDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TenantRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name_lower": strings.ToLower(name)},
		bson.M{"clean_name": domain.CleanName(name)},
	}}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("check tenant name: %w", err)
	}
	return n > 0, nil
}

func (r *TenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_lower", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer cur.Close(ctx)

	var tenants []*domain.Tenant
	for cur.Next(ctx) {
		var doc tenantDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tenant: %w", err)
		}
		tenants = append(tenants, doc.toDomain())
	}
	return tenants, cur.Err()
}

func (r *TenantRepository) Rename(ctx context.Context, id, name string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTenantNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       name,
		"name_lower": strings.ToLower(name),
		"clean_name": domain.CleanName(name),
	}})
	if err != nil {
		return fmt.Errorf("rename tenant: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTenantNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (d *tenantDoc) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: unixToTime(d.CreatedAt),
	}
}
