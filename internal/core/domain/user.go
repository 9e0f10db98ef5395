package domain

import "time"

// Role is the closed set of capability tiers a session can carry. It is
// decoded once at the auth middleware boundary; nothing downstream inspects
// raw claim strings.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleTenantAdmin Role = "tenant_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleTenantAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User models an account scoped to a tenant. The super admin is the single
// exception: it belongs to no tenant and is identified by a reserved email.
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               Role      `json:"role"`
	TenantID           string    `json:"tenant_id,omitempty"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedByUserID    string    `json:"created_by_user_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedByIP        string    `json:"-"`
}

// IsAdmin reports whether the user manages other users of its own tenant.
// The super admin deliberately does not count: it operates on tenants, not
// inside them.
func (u *User) IsAdmin() bool {
	return u.Role == RoleTenantAdmin
}
