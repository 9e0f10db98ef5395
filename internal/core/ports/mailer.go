package ports

import (
	"context"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// Mailer notifies a newly created user of their temporary password. Callers
// treat delivery as fire-and-forget: a failed send is logged, never surfaced.
type Mailer interface {
	SendTempPassword(ctx context.Context, user *domain.User, tempPassword string) error
}
