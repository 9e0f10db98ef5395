package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/api/metrics"
	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/crypto"
)

// AdminService implements tenant-admin operations. Every method takes the
// tenant id from the caller's session claims; a user id from another tenant
// simply does not resolve, so cross-tenant probes surface as not-found.
type AdminService struct {
	users   ports.UserRepository
	entries ports.TimeEntryRepository
	hasher  crypto.Hasher
	passgen crypto.PasswordGenerator
	audit   *AuditService
	mailer  ports.Mailer
	log     zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	entries ports.TimeEntryRepository,
	hasher crypto.Hasher,
	passgen crypto.PasswordGenerator,
	audit *AuditService,
	mailer ports.Mailer,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:   users,
		entries: entries,
		hasher:  hasher,
		passgen: passgen,
		audit:   audit,
		mailer:  mailer,
		log:     log,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, tenantID string) ([]*domain.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

// CreateUser provisions an account with a generated one-time temp password.
// The password is returned exactly once to the creating admin and emailed to
// the user; the account starts in forced rotation.
func (s *AdminService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreatedUser, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	tempPassword := s.passgen.Generate(crypto.DefaultTempLength)
	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hash temp password: %w", err)
	}

	role := domain.RoleEmployee
	if in.IsAdmin {
		role = domain.RoleTenantAdmin
	}

	user := &domain.User{
		Name:               name,
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		TenantID:           in.TenantID,
		MustChangePassword: true,
		CreatedByUserID:    in.CreatedByUserID,
		CreatedAt:          time.Now().UTC(),
		CreatedByIP:        in.RemoteIP,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// The temp password lands in the audit detail payload. Deliberate
	// tradeoff: recoverability for support outweighs the exposure of a
	// credential that is invalidated on first use.
	s.audit.Record(ctx, domain.AuditUserCreated, in.TenantID, created.ID, in.CreatedByUserID, in.RemoteIP, map[string]string{
		"temp_password": tempPassword,
		"note":          "user created",
	})
	metrics.UsersCreatedTotal.WithLabelValues(string(role)).Inc()

	if s.mailer != nil {
		if merr := s.mailer.SendTempPassword(ctx, created, tempPassword); merr != nil {
			s.log.Warn().Err(merr).Str("user_id", created.ID).Msg("temp password email failed")
		}
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("tenant_id", in.TenantID).
		Str("role", string(role)).
		Msg("user created")

	return &ports.CreatedUser{User: created, TempPassword: tempPassword}, nil
}

// DeleteUser removes a user and their time entries. Audit rows referencing
// the user are retained with a tombstoned subject id: the trail outlives the
// account.
func (s *AdminService) DeleteUser(ctx context.Context, tenantID, userID, performedBy, remoteIP string) error {
	if err := s.users.DeleteInTenant(ctx, tenantID, userID); err != nil {
		return err
	}
	if err := s.entries.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user entries: %w", err)
	}

	s.audit.Record(ctx, domain.AuditUserDeleted, tenantID, userID, performedBy, remoteIP, map[string]string{
		"note": "user deleted, audit trail retained",
	})
	s.log.Info().Str("user_id", userID).Str("tenant_id", tenantID).Msg("user deleted")
	return nil
}

// UserAudit returns the subject's audit trail. A deleted user's trail stays
// readable because the rows outlive the account, but reads are always
// filtered by the caller's tenant, so a foreign tenant's id — live or
// deleted — yields nothing.
func (s *AdminService) UserAudit(ctx context.Context, tenantID, userID string) ([]*domain.AuditEntry, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err == nil && user.TenantID != tenantID {
		return nil, domain.ErrUserNotFound
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.audit.ListForUser(ctx, tenantID, userID)
}

// ExportHours returns the tenant's entries for one month, ordered by user
// name then date, ready for CSV rendering at the HTTP layer.
func (s *AdminService) ExportHours(ctx context.Context, tenantID string, year int, month time.Month) ([]ports.HoursRow, error) {
	entries, err := s.entries.ListMonthByTenant(ctx, tenantID, year, month)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]ports.HoursRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ports.HoursRow{
			Name:  names[e.UserID],
			Date:  e.Date,
			Hours: e.Hours(),
			Note:  e.Note,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}
