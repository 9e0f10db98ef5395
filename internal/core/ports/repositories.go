package ports

import (
	"context"
	"time"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// UserRepository persists accounts. Email matching is case-insensitive
// everywhere; the (email, tenant) pair is the identity of a non-superadmin
// user, so lookups always carry the tenant id.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmailAndTenant matches non-superadmin users only.
	FindByEmailAndTenant(ctx context.Context, email, tenantID string) (*domain.User, error)
	// FindSuperAdmin matches the reserved super-admin account by email.
	FindSuperAdmin(ctx context.Context, email string) (*domain.User, error)
	// UpdatePassword replaces the hash and clears the forced-rotation flag in
	// a single write, so a crash can never commit one without the other.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	// DeleteInTenant removes a user only when it belongs to tenantID. A
	// cross-tenant id yields domain.ErrUserNotFound.
	DeleteInTenant(ctx context.Context, tenantID, userID string) error
	// CountByTenant counts non-superadmin users of a tenant.
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}

// TenantRepository persists tenants. Name uniqueness is case-insensitive and
// additionally collision-checked on the cleaned name.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	// ExistsByName reports whether any tenant other than excludeID collides
	// with name, comparing both the exact lowered name and the cleaned name.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// TimeEntryRepository persists work intervals.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TimeEntry, error)
	// ListMonthByUser returns the user's entries within the given month.
	ListMonthByUser(ctx context.Context, userID string, year int, month time.Month) ([]*domain.TimeEntry, error)
	// ListMonthByTenant returns a whole tenant's entries within the given
	// month, for the admin export.
	ListMonthByTenant(ctx context.Context, tenantID string, year int, month time.Month) ([]*domain.TimeEntry, error)
	// DeleteOwned removes an entry only when it belongs to userID.
	DeleteOwned(ctx context.Context, userID, entryID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AuditRepository is the append-only sink for security events. There is no
// update or delete: rows outlive their subjects.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	// ListBySubject returns a subject's rows within one tenant. Reads are
	// always tenant-filtered so a foreign tenant's admin cannot retrieve a
	// deleted user's trail by id.
	ListBySubject(ctx context.Context, tenantID, subjectUserID string) ([]*domain.AuditEntry, error)
}
