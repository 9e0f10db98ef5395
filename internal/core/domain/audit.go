package domain

import "time"

// AuditAction identifies a security-relevant event kind.
type AuditAction string

const (
	AuditUserCreated     AuditAction = "user_created"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditUserDeleted     AuditAction = "user_deleted"
)

// AuditEntry is one append-only record of a security-relevant event. Entries
// reference users by id only; deleting a user tombstones the reference but
// never removes the row, so the trail survives the subject.
type AuditEntry struct {
	ID     string      `json:"id"`
	Action AuditAction `json:"action"`
	// TenantID scopes the row to the subject's tenant. It outlives the
	// subject, so tenant isolation holds for deleted users too.
	TenantID          string            `json:"tenant_id,omitempty"`
	SubjectUserID     string            `json:"subject_user_id"`
	PerformedByUserID string            `json:"performed_by_user_id,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
	IPAddress         string            `json:"ip_address"`
	Details           map[string]string `json:"details,omitempty"`
}
