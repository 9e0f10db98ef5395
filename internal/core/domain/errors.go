package domain

import "errors"

// Authentication failures collapse into ErrInvalidCredentials regardless of
// root cause (unknown email, wrong tenant, bad password, corrupt stored hash)
// so the login surface never confirms which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

var (
	// ErrCredentialsRequired is a validation failure (blank email or
	// password), distinct from a credential mismatch: the form was not
	// filled in, nothing was verified.
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrTenantRequired      = errors.New("tenant selection is required")
	ErrTenantNameRequired  = errors.New("tenant name is required")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantExists        = errors.New("tenant already exists")
	ErrTenantHasUsers      = errors.New("tenant still has users")
	ErrEntryNotFound       = errors.New("time entry not found")
	ErrWeakPassword        = errors.New("password too short")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidInterval     = errors.New("end time must be after start time")
)
