package ports

import (
	"context"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// TenantSummary is a tenant plus its non-superadmin user count, as listed on
// the super-admin overview.
type TenantSummary struct {
	Tenant    *domain.Tenant
	UserCount int64
}

// TenantOption is the public (id, name) pair the login form dropdown needs.
type TenantOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TenantService covers super-admin tenant management.
type TenantService interface {
	List(ctx context.Context) ([]*TenantSummary, error)
	// Options lists (id, name) pairs for the unauthenticated login form.
	Options(ctx context.Context) ([]*TenantOption, error)
	Create(ctx context.Context, name string) (*domain.Tenant, error)
	Rename(ctx context.Context, id, name string) (*domain.Tenant, error)
	// Delete refuses while the tenant still owns non-superadmin users.
	Delete(ctx context.Context, id string) error
	// CreateAdmin provisions the tenant's admin account with a derived email
	// and a one-time temp password.
	CreateAdmin(ctx context.Context, tenantID, performedBy, remoteIP string) (*CreatedUser, error)
}
