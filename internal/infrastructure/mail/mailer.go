// Package mail delivers temp-password notifications. The shipped
// implementation writes to the structured log instead of SMTP; production
// deployments swap in a real transport behind the same port.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// LogMailer "sends" by logging the notification. The temp password itself is
// logged at debug level only, so default log levels never persist it.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendTempPassword(ctx context.Context, user *domain.User, tempPassword string) error {
	m.log.Info().
		Str("email", user.Email).
		Str("tenant_id", user.TenantID).
		Msg("temp password notification sent")
	m.log.Debug().
		Str("email", user.Email).
		Str("temp_password", tempPassword).
		Msg("temp password payload")
	return nil
}
