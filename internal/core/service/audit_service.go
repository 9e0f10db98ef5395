package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
)

// AuditService is the append-only sink for security events. Recording is
// fire-and-forget from the caller's perspective: a failed append is logged and
// swallowed so an audit outage can never block a login or a password change.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log, now: time.Now}
}

// Record appends one entry. The subject is referenced by id only; the row
// survives deletion of the subject user but stays scoped to its tenant.
func (s *AuditService) Record(ctx context.Context, action domain.AuditAction, tenantID, subjectUserID, performedByUserID, ip string, details map[string]string) {
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditEntry{
		Action:            action,
		TenantID:          tenantID,
		SubjectUserID:     subjectUserID,
		PerformedByUserID: performedByUserID,
		Timestamp:         s.now().UTC(),
		IPAddress:         ip,
		Details:           details,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", string(action)).
			Str("subject_user_id", subjectUserID).
			Msg("audit append failed")
	}
}

// ListForUser returns the trail for one subject within one tenant, newest
// first. The tenant filter applies even when the subject no longer exists.
func (s *AuditService) ListForUser(ctx context.Context, tenantID, subjectUserID string) ([]*domain.AuditEntry, error) {
	return s.repo.ListBySubject(ctx, tenantID, subjectUserID)
}
