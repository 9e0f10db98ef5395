package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/crypto"
)

type stubTenantRepo struct {
	tenants map[string]*domain.Tenant
	nextID  int
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{tenants: make(map[string]*domain.Tenant)}
}

func (r *stubTenantRepo) Create(_ context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	clone := *tenant
	r.nextID++
	clone.ID = fmt.Sprintf("t%d", r.nextID)
	r.tenants[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTenantRepo) FindByID(_ context.Context, id string) (*domain.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTenantRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	lower := strings.ToLower(name)
	clean := domain.CleanName(name)
	for id, t := range r.tenants {
		if id == excludeID {
			continue
		}
		if strings.ToLower(t.Name) == lower || domain.CleanName(t.Name) == clean {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTenantRepo) List(_ context.Context) ([]*domain.Tenant, error) {
	var out []*domain.Tenant
	for _, t := range r.tenants {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTenantRepo) Rename(_ context.Context, id, name string) error {
	t, ok := r.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Name = name
	return nil
}

func (r *stubTenantRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tenants[id]; !ok {
		return domain.ErrTenantNotFound
	}
	delete(r.tenants, id)
	return nil
}

type tenantFixture struct {
	svc     *TenantService
	tenants *stubTenantRepo
	users   *stubUserRepo
	audit   *stubAuditRepo
	mailer  *stubMailer
	hasher  crypto.Hasher
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	tenants := newStubTenantRepo()
	users := newStubUserRepo()
	audit := &stubAuditRepo{}
	mailer := &stubMailer{}
	hasher := crypto.NewBcryptHasher(bcrypt.MinCost)
	svc := NewTenantService(tenants, users, hasher, crypto.NewRandGenerator(), NewAuditService(audit, zerolog.Nop()), mailer, zerolog.Nop())
	return &tenantFixture{svc: svc, tenants: tenants, users: users, audit: audit, mailer: mailer, hasher: hasher}
}

func TestTenantService_Create_CollisionOnCleanName(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "Burger Hytten"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Different spelling, same cleaned name.
	for _, name := range []string{"Burger Hytten", "burger hytten", "BurgerHytten", "Burger-Hytten!"} {
		if _, err := f.svc.Create(ctx, name); !errors.Is(err, domain.ErrTenantExists) {
			t.Fatalf("name %q: expected ErrTenantExists, got %v", name, err)
		}
	}

	if _, err := f.svc.Create(ctx, "Pizza Palace"); err != nil {
		t.Fatalf("distinct name rejected: %v", err)
	}
}

func TestTenantService_BlankNameIsRejected(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	// Whitespace trims down to nothing, so it is a validation failure,
	// not a name collision.
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := f.svc.Create(ctx, name); !errors.Is(err, domain.ErrTenantNameRequired) {
			t.Fatalf("create %q: expected ErrTenantNameRequired, got %v", name, err)
		}
	}

	tenant, err := f.svc.Create(ctx, "Burger Hytten")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Rename(ctx, tenant.ID, "  "); !errors.Is(err, domain.ErrTenantNameRequired) {
		t.Fatalf("rename to blank: expected ErrTenantNameRequired, got %v", err)
	}
	got, err := f.tenants.FindByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Burger Hytten" {
		t.Fatalf("name changed to %q after rejected rename", got.Name)
	}
}

func TestTenantService_Rename_AllowsOwnName(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	bh, _ := f.svc.Create(ctx, "Burger Hytten")
	if _, err := f.svc.Create(ctx, "Pizza Palace"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Renaming to a casing variant of its own name is fine.
	if _, err := f.svc.Rename(ctx, bh.ID, "BURGER HYTTEN"); err != nil {
		t.Fatalf("rename to own name: %v", err)
	}
	// Colliding with another tenant is not.
	if _, err := f.svc.Rename(ctx, bh.ID, "pizza palace"); !errors.Is(err, domain.ErrTenantExists) {
		t.Fatalf("expected ErrTenantExists, got %v", err)
	}
}

func TestTenantService_Delete_BlockedWhileUsersRemain(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	tenant, _ := f.svc.Create(ctx, "Burger Hytten")
	hash, _ := f.hasher.Hash("x")
	u, err := f.users.Create(ctx, &domain.User{Name: "A", Email: "a@rh.dk", PasswordHash: hash, Role: domain.RoleEmployee, TenantID: tenant.ID})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := f.svc.Delete(ctx, tenant.ID); !errors.Is(err, domain.ErrTenantHasUsers) {
		t.Fatalf("expected ErrTenantHasUsers, got %v", err)
	}

	if err := f.users.DeleteInTenant(ctx, tenant.ID, u.ID); err != nil {
		t.Fatalf("remove user: %v", err)
	}
	if err := f.svc.Delete(ctx, tenant.ID); err != nil {
		t.Fatalf("delete empty tenant: %v", err)
	}
	if err := f.svc.Delete(ctx, tenant.ID); !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestTenantService_CreateAdmin(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	tenant, _ := f.svc.Create(ctx, "Burger Hytten")

	created, err := f.svc.CreateAdmin(ctx, tenant.ID, "root", "10.0.0.1")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if created.User.Email != "admin.burgerhytten@rh.dk" {
		t.Fatalf("derived email = %q", created.User.Email)
	}
	if created.User.Role != domain.RoleTenantAdmin {
		t.Fatalf("role = %q, want tenant_admin", created.User.Role)
	}
	if !created.User.MustChangePassword {
		t.Fatalf("admin not in forced rotation")
	}
	if created.TempPassword == "" {
		t.Fatalf("no temp password returned")
	}

	// Second call collides on the derived address.
	if _, err := f.svc.CreateAdmin(ctx, tenant.ID, "root", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestTenantService_List_CountsUsers(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	tenant, _ := f.svc.Create(ctx, "Burger Hytten")
	hash, _ := f.hasher.Hash("x")
	for i := 0; i < 3; i++ {
		if _, err := f.users.Create(ctx, &domain.User{
			Name: fmt.Sprintf("U%d", i), Email: fmt.Sprintf("u%d@rh.dk", i),
			PasswordHash: hash, Role: domain.RoleEmployee, TenantID: tenant.ID,
			CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	summaries, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("tenants = %d, want 1", len(summaries))
	}
	if summaries[0].UserCount != 3 {
		t.Fatalf("user count = %d, want 3", summaries[0].UserCount)
	}
}
