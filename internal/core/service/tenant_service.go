package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/api/metrics"
	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/crypto"
)

// adminEmailDomain is the mail domain tenant-admin addresses are derived
// under: admin.<cleanname>@rh.dk.
const adminEmailDomain = "rh.dk"

// TenantService implements super-admin tenant management.
type TenantService struct {
	tenants ports.TenantRepository
	users   ports.UserRepository
	hasher  crypto.Hasher
	passgen crypto.PasswordGenerator
	audit   *AuditService
	mailer  ports.Mailer
	log     zerolog.Logger
}

func NewTenantService(
	tenants ports.TenantRepository,
	users ports.UserRepository,
	hasher crypto.Hasher,
	passgen crypto.PasswordGenerator,
	audit *AuditService,
	mailer ports.Mailer,
	log zerolog.Logger,
) *TenantService {
	return &TenantService{
		tenants: tenants,
		users:   users,
		hasher:  hasher,
		passgen: passgen,
		audit:   audit,
		mailer:  mailer,
		log:     log,
	}
}

func (s *TenantService) List(ctx context.Context) ([]*ports.TenantSummary, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.TenantSummary, 0, len(tenants))
	for _, t := range tenants {
		count, err := s.users.CountByTenant(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("count users for tenant %s: %w", t.ID, err)
		}
		out = append(out, &ports.TenantSummary{Tenant: t, UserCount: count})
	}
	return out, nil
}

func (s *TenantService) Options(ctx context.Context) ([]*ports.TenantOption, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.TenantOption, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, &ports.TenantOption{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (s *TenantService) Create(ctx context.Context, name string) (*domain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrTenantNameRequired
	}
	exists, err := s.tenants.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrTenantExists
	}

	tenant, err := s.tenants.Create(ctx, &domain.Tenant{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenant.ID).Str("name", name).Msg("tenant created")
	return tenant, nil
}

func (s *TenantService) Rename(ctx context.Context, id, name string) (*domain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrTenantNameRequired
	}
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.tenants.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrTenantExists
	}
	if err := s.tenants.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	tenant.Name = name
	return tenant, nil
}

// Delete removes a tenant only when it owns no non-superadmin users.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.users.CountByTenant(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrTenantHasUsers
	}
	if err := s.tenants.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("tenant_id", id).Msg("tenant deleted")
	return nil
}

// CreateAdmin provisions the tenant's admin account. The email is derived
// from the cleaned tenant name and the password comes from the temp-password
// generator, so the account starts in forced rotation like any other
// admin-created user.
func (s *TenantService) CreateAdmin(ctx context.Context, tenantID, performedBy, remoteIP string) (*ports.CreatedUser, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	email := fmt.Sprintf("admin.%s@%s", domain.CleanName(tenant.Name), adminEmailDomain)
	if _, err := s.users.FindByEmailAndTenant(ctx, email, tenantID); err == nil {
		return nil, domain.ErrUserExists
	}

	tempPassword := s.passgen.Generate(crypto.DefaultTempLength)
	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hash temp password: %w", err)
	}

	admin := &domain.User{
		Name:               tenant.Name + " Administrator",
		Email:              email,
		PasswordHash:       hash,
		Role:               domain.RoleTenantAdmin,
		TenantID:           tenantID,
		MustChangePassword: true,
		CreatedByUserID:    performedBy,
		CreatedAt:          time.Now().UTC(),
		CreatedByIP:        remoteIP,
	}
	created, err := s.users.Create(ctx, admin)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditUserCreated, tenantID, created.ID, performedBy, remoteIP, map[string]string{
		"temp_password": tempPassword,
		"note":          "tenant admin created",
	})
	metrics.UsersCreatedTotal.WithLabelValues(string(domain.RoleTenantAdmin)).Inc()

	if s.mailer != nil {
		if merr := s.mailer.SendTempPassword(ctx, created, tempPassword); merr != nil {
			s.log.Warn().Err(merr).Str("user_id", created.ID).Msg("temp password email failed")
		}
	}

	s.log.Info().Str("tenant_id", tenantID).Str("email", email).Msg("tenant admin created")
	return &ports.CreatedUser{User: created, TempPassword: tempPassword}, nil
}
