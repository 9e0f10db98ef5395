package ports

import (
	"context"
	"time"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

type CreateUserInput struct {
	TenantID        string
	Name            string
	Email           string
	IsAdmin         bool
	CreatedByUserID string
	RemoteIP        string
}

// CreatedUser carries the generated temp password exactly once; it is never
// retrievable again through any endpoint.
type CreatedUser struct {
	User         *domain.User
	TempPassword string
}

// HoursRow is one line of the monthly hours export.
type HoursRow struct {
	Name  string
	Date  time.Time
	Hours float64
	Note  string
}

// AdminService covers the tenant-admin operations: managing the users of the
// admin's own tenant and exporting their hours. Every operation is scoped by
// the caller's tenant id taken from session claims.
type AdminService interface {
	ListUsers(ctx context.Context, tenantID string) ([]*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*CreatedUser, error)
	DeleteUser(ctx context.Context, tenantID, userID, performedBy, remoteIP string) error
	// UserAudit returns the audit trail for one subject, newest first. The
	// trail outlives the account, so the subject may already be deleted.
	UserAudit(ctx context.Context, tenantID, userID string) ([]*domain.AuditEntry, error)
	ExportHours(ctx context.Context, tenantID string, year int, month time.Month) ([]HoursRow, error)
}
