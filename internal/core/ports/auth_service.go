package ports

import (
	"context"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/session"
)

// Route is the post-login destination decided by the login protocol.
type Route string

const (
	RouteHome           Route = "home"
	RouteChangePassword Route = "change_password"
)

type LoginInput struct {
	Email    string
	Password string
	// TenantID is required for everyone except the reserved super-admin
	// email, for which it is ignored.
	TenantID string
	// RemoteIP is recorded for throttling; it plays no part in identity.
	RemoteIP string
}

type LoginResult struct {
	Token string
	User  *domain.User
	Route Route
	// FirstLogin is true when the user was routed to the change-password
	// flow because of a pending forced rotation.
	FirstLogin bool
}

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
	// FirstLogin skips old-password verification: the account holds a
	// one-time temp password the user does not yet own.
	FirstLogin bool
	RemoteIP   string
}

// AuthService implements the login and password-rotation protocols.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// ChangePassword updates the credential and returns a fresh session token
	// with the forced-rotation claim cleared.
	ChangePassword(ctx context.Context, claims *session.Claims, in ChangePasswordInput) (string, error)
}
