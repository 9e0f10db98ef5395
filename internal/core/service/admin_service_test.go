package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/crypto"
)

type stubEntryRepo struct {
	entries map[string]*domain.TimeEntry
	nextID  int
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[string]*domain.TimeEntry)}
}

func (r *stubEntryRepo) Create(_ context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	clone := *entry
	r.nextID++
	clone.ID = fmt.Sprintf("e%d", r.nextID)
	r.entries[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEntryRepo) ListByUser(_ context.Context, userID string) ([]*domain.TimeEntry, error) {
	var out []*domain.TimeEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func inMonth(e *domain.TimeEntry, year int, month time.Month) bool {
	return e.Date.Year() == year && e.Date.Month() == month
}

func (r *stubEntryRepo) ListMonthByUser(_ context.Context, userID string, year int, month time.Month) ([]*domain.TimeEntry, error) {
	var out []*domain.TimeEntry
	for _, e := range r.entries {
		if e.UserID == userID && inMonth(e, year, month) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEntryRepo) ListMonthByTenant(_ context.Context, tenantID string, year int, month time.Month) ([]*domain.TimeEntry, error) {
	var out []*domain.TimeEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && inMonth(e, year, month) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEntryRepo) DeleteOwned(_ context.Context, userID, entryID string) error {
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, entryID)
	return nil
}

func (r *stubEntryRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, e := range r.entries {
		if e.UserID == userID {
			delete(r.entries, id)
		}
	}
	return nil
}

type stubMailer struct {
	sent []string
}

func (m *stubMailer) SendTempPassword(_ context.Context, user *domain.User, _ string) error {
	m.sent = append(m.sent, user.Email)
	return nil
}

type adminFixture struct {
	svc     *AdminService
	users   *stubUserRepo
	entries *stubEntryRepo
	audit   *stubAuditRepo
	mailer  *stubMailer
	hasher  crypto.Hasher
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	users := newStubUserRepo()
	entries := newStubEntryRepo()
	audit := &stubAuditRepo{}
	mailer := &stubMailer{}
	hasher := crypto.NewBcryptHasher(bcrypt.MinCost)
	svc := NewAdminService(users, entries, hasher, crypto.NewRandGenerator(), NewAuditService(audit, zerolog.Nop()), mailer, zerolog.Nop())
	return &adminFixture{svc: svc, users: users, entries: entries, audit: audit, mailer: mailer, hasher: hasher}
}

func TestAdminService_CreateUser(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.svc.CreateUser(context.Background(), ports.CreateUserInput{
		TenantID:        "t1",
		Name:            "Kasserer",
		Email:           "Kasserer@RH.dk",
		CreatedByUserID: "admin1",
		RemoteIP:        "10.0.0.7",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if created.TempPassword == "" {
		t.Fatalf("no temp password returned")
	}
	if len(created.TempPassword) != crypto.DefaultTempLength {
		t.Fatalf("temp password length = %d, want %d", len(created.TempPassword), crypto.DefaultTempLength)
	}
	if created.User.Email != "kasserer@rh.dk" {
		t.Fatalf("email not lowercased: %q", created.User.Email)
	}
	if created.User.Role != domain.RoleEmployee {
		t.Fatalf("role = %q, want employee", created.User.Role)
	}
	if !created.User.MustChangePassword {
		t.Fatalf("new user not in forced rotation")
	}

	// The stored credential is the hash of the returned temp password.
	stored, _ := f.users.FindByID(context.Background(), created.User.ID)
	if f.hasher.Verify(stored.PasswordHash, created.TempPassword) == crypto.Mismatch {
		t.Fatalf("stored hash does not match the returned temp password")
	}

	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != "kasserer@rh.dk" {
		t.Fatalf("temp password mail not dispatched: %v", f.mailer.sent)
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != domain.AuditUserCreated {
		t.Fatalf("creation not audited")
	}
}

func TestAdminService_CreateUser_AdminRole(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.svc.CreateUser(context.Background(), ports.CreateUserInput{
		TenantID: "t1", Name: "Chef", Email: "chef@rh.dk", IsAdmin: true,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if created.User.Role != domain.RoleTenantAdmin {
		t.Fatalf("role = %q, want tenant_admin", created.User.Role)
	}
}

func TestAdminService_CreateUser_DuplicatePerTenant(t *testing.T) {
	f := newAdminFixture(t)

	in := ports.CreateUserInput{TenantID: "t1", Name: "A", Email: "dup@rh.dk"}
	if _, err := f.svc.CreateUser(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.CreateUser(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The same email is fine in another tenant.
	in.TenantID = "t2"
	if _, err := f.svc.CreateUser(context.Background(), in); err != nil {
		t.Fatalf("same email in another tenant: %v", err)
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.svc.CreateUser(context.Background(), ports.CreateUserInput{TenantID: "t1", Name: "A", Email: "a@rh.dk"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	userID := created.User.ID
	if _, err := f.entries.Create(context.Background(), &domain.TimeEntry{UserID: userID, TenantID: "t1", Date: time.Now()}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	if err := f.svc.DeleteUser(context.Background(), "t1", userID, "admin1", "10.0.0.7"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), userID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still resolvable after delete")
	}
	if got, _ := f.entries.ListByUser(context.Background(), userID); len(got) != 0 {
		t.Fatalf("entries survived user deletion")
	}

	// The audit trail keeps both the creation and the deletion rows for the
	// deleted subject.
	trail, err := f.audit.ListBySubject(context.Background(), "t1", userID)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("audit rows for deleted user = %d, want 2", len(trail))
	}
}

func TestAdminService_DeleteUser_CrossTenantIsNotFound(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.svc.CreateUser(context.Background(), ports.CreateUserInput{TenantID: "t1", Name: "A", Email: "a@rh.dk"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Another tenant's admin cannot even learn the id exists.
	if err := f.svc.DeleteUser(context.Background(), "t2", created.User.ID, "admin2", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), created.User.ID); err != nil {
		t.Fatalf("user deleted through a cross-tenant call")
	}
}

func TestAdminService_UserAudit(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateUser(ctx, ports.CreateUserInput{TenantID: "t1", Name: "A", Email: "a@rh.dk"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	userID := created.User.ID

	// Another tenant's admin cannot read the trail of a live user.
	if _, err := f.svc.UserAudit(ctx, "t2", userID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	trail, err := f.svc.UserAudit(ctx, "t1", userID)
	if err != nil {
		t.Fatalf("user audit: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != domain.AuditUserCreated {
		t.Fatalf("trail = %+v", trail)
	}

	// The trail survives deletion of the subject.
	if err := f.svc.DeleteUser(ctx, "t1", userID, "admin1", ""); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	trail, err = f.svc.UserAudit(ctx, "t1", userID)
	if err != nil {
		t.Fatalf("user audit after delete: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail rows after delete = %d, want 2", len(trail))
	}
}

func TestAdminService_UserAudit_DeletedUserStaysTenantScoped(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	// The creation row carries the temp password, so a cross-tenant read of
	// a deleted user's trail would leak a credential.
	created, err := f.svc.CreateUser(ctx, ports.CreateUserInput{TenantID: "t1", Name: "A", Email: "a@rh.dk"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	userID := created.User.ID
	if err := f.svc.DeleteUser(ctx, "t1", userID, "admin1", ""); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	trail, err := f.svc.UserAudit(ctx, "t2", userID)
	if err != nil {
		t.Fatalf("foreign tenant audit read: %v", err)
	}
	if len(trail) != 0 {
		t.Fatalf("deleted user's trail visible to a foreign tenant: %+v", trail)
	}

	// The owning tenant still reads the full trail.
	trail, err = f.svc.UserAudit(ctx, "t1", userID)
	if err != nil {
		t.Fatalf("owning tenant audit read: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("owning tenant trail rows = %d, want 2", len(trail))
	}
}

func TestAdminService_ExportHours(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	anna, _ := f.svc.CreateUser(ctx, ports.CreateUserInput{TenantID: "t1", Name: "Anna", Email: "anna@rh.dk"})
	bo, _ := f.svc.CreateUser(ctx, ports.CreateUserInput{TenantID: "t1", Name: "Bo", Email: "bo@rh.dk"})

	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }
	shift := func(userID string, d, from, to int, note string) {
		_, err := f.entries.Create(ctx, &domain.TimeEntry{
			UserID:   userID,
			TenantID: "t1",
			Date:     day(d),
			Start:    day(d).Add(time.Duration(from) * time.Hour),
			End:      day(d).Add(time.Duration(to) * time.Hour),
			Note:     note,
		})
		if err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
	shift(bo.User.ID, 3, 9, 17, "open")
	shift(anna.User.ID, 5, 10, 14, "")
	shift(anna.User.ID, 2, 12, 20, "close")
	// Outside the requested month, must not appear.
	shift(anna.User.ID, 2, 9, 17, "")
	f.entries.entries["e4"].Date = time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	rows, err := f.svc.ExportHours(ctx, "t1", 2026, time.March)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	// Ordered by name, then date.
	want := []struct {
		name  string
		day   int
		hours float64
	}{
		{"Anna", 2, 8},
		{"Anna", 5, 4},
		{"Bo", 3, 8},
	}
	for i, w := range want {
		if rows[i].Name != w.name || rows[i].Date.Day() != w.day || rows[i].Hours != w.hours {
			t.Fatalf("row %d = %s/%d/%.1f, want %s/%d/%.1f",
				i, rows[i].Name, rows[i].Date.Day(), rows[i].Hours, w.name, w.day, w.hours)
		}
	}
}
