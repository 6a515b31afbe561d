package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

type fakeRepo struct {
	Repository
	findAssignmentFn func(ctx context.Context, email string) (*models.PermissionAssignment, error)
}

func (f *fakeRepo) FindAssignment(ctx context.Context, email string) (*models.PermissionAssignment, error) {
	if f.findAssignmentFn != nil {
		return f.findAssignmentFn(ctx, email)
	}
	return nil, nil
}

type fakeStore struct {
	loadFn func(ctx context.Context) (*RoleTemplate, error)
	saved  []*RoleTemplate
}

func (f *fakeStore) Load(ctx context.Context) (*RoleTemplate, error) {
	if f.loadFn != nil {
		return f.loadFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) Save(_ context.Context, t *RoleTemplate) error {
	f.saved = append(f.saved, t)
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(_ context.Context, entry audit.Entry) error {
	c.entries = append(c.entries, entry)
	return nil
}

func newTestService(t *testing.T, repo Repository, store TemplateStore, rec audit.Recorder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Store: store, Audit: rec})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestResolveAnonymous(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakeStore{}, nil)
	access := svc.Resolve(context.Background(), nil)
	if access.IsAdmin || access.UserRole != "" || access.Authenticated() {
		t.Fatalf("unexpected anonymous access %+v", access)
	}
	if !access.Permissions.Equal(NewSet()) || len(access.Permissions) != 15 {
		t.Fatal("anonymous access must hold zero capabilities")
	}
}

func TestResolveSystemAdminSkipsTemplate(t *testing.T) {
	store := &fakeStore{loadFn: func(context.Context) (*RoleTemplate, error) {
		t.Fatal("template must not be read for admins")
		return nil, nil
	}}
	svc := newTestService(t, &fakeRepo{}, store, nil)
	access := svc.Resolve(context.Background(), &auth.Identity{Email: "root@example.com", PlatformRole: "admin"})
	if !access.IsSystemAdmin || !access.IsAdmin || access.UserRole != enums.AppRoleAdmin {
		t.Fatalf("unexpected access %+v", access)
	}
	if !access.Permissions.Equal(AllTrue()) {
		t.Fatal("expected all capabilities")
	}
}

func TestResolveAssignmentErrorDegradesToEmployee(t *testing.T) {
	repo := &fakeRepo{findAssignmentFn: func(context.Context, string) (*models.PermissionAssignment, error) {
		return nil, errors.New("db down")
	}}
	svc := newTestService(t, repo, &fakeStore{}, nil)
	access := svc.Resolve(context.Background(), &auth.Identity{Email: "e@example.com"})
	if access.UserRole != enums.AppRoleEmployee {
		t.Fatalf("expected employee, got %s", access.UserRole)
	}
	if !access.Can(CanViewCustomers) || access.Can(CanViewInventory) {
		t.Fatalf("expected employee fallback set, got %v", access.Permissions)
	}
}

func TestResolveTemplateErrorFailsClosed(t *testing.T) {
	repo := &fakeRepo{findAssignmentFn: func(context.Context, string) (*models.PermissionAssignment, error) {
		return &models.PermissionAssignment{Role: enums.AppRoleManager}, nil
	}}
	store := &fakeStore{loadFn: func(context.Context) (*RoleTemplate, error) {
		return nil, errors.New("cache and db down")
	}}
	svc := newTestService(t, repo, store, nil)
	access := svc.Resolve(context.Background(), &auth.Identity{Email: "m@example.com"})
	if !access.IsManager || access.UserRole != enums.AppRoleManager {
		t.Fatalf("role state should survive, got %+v", access)
	}
	if !access.Permissions.Equal(NewSet()) {
		t.Fatal("template failure must not grant anything")
	}
}

func TestRoleDefaultsUsesStrictResolver(t *testing.T) {
	tpl := NewRoleTemplate()
	tpl.SetFlag(enums.AppRoleEmployee, CanViewCustomers, FlagTrue)
	svc := newTestService(t, &fakeRepo{}, &fakeStore{loadFn: func(context.Context) (*RoleTemplate, error) {
		return tpl, nil
	}}, nil)

	set, err := svc.RoleDefaults(context.Background(), enums.AppRoleEmployee)
	if err != nil {
		t.Fatalf("role defaults: %v", err)
	}
	if !set[CanViewCustomers] {
		t.Fatal("configured flag must be granted")
	}
	if set[CanManageCustomers] {
		t.Fatal("partially configured templates are not blended with fallback defaults")
	}

	if _, err := svc.RoleDefaults(context.Background(), "owner"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveTemplateRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakeStore{}, nil)
	_, err := svc.SaveTemplate(context.Background(), Access{Email: "m@example.com", IsManager: true}, TemplateInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSaveTemplateValidatesAndAudits(t *testing.T) {
	store := &fakeStore{}
	rec := &captureRecorder{}
	svc := newTestService(t, &fakeRepo{}, store, rec)
	admin := Access{Email: "root@example.com", IsAdmin: true}
	yes := true

	_, err := svc.SaveTemplate(context.Background(), admin, TemplateInput{Roles: map[enums.AppRole]map[Capability]*bool{
		"owner": {CanExportData: &yes},
	}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for role, got %v", err)
	}
	_, err = svc.SaveTemplate(context.Background(), admin, TemplateInput{Roles: map[enums.AppRole]map[Capability]*bool{
		enums.AppRoleManager: {"can_fly": &yes},
	}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for capability, got %v", err)
	}

	view, err := svc.SaveTemplate(context.Background(), admin, TemplateInput{Roles: map[enums.AppRole]map[Capability]*bool{
		enums.AppRoleManager: {CanExportData: &yes, CanViewReports: nil},
	}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].UpdatedBy != admin.Email {
		t.Fatalf("expected saved template with actor, got %+v", store.saved)
	}
	if !view.Exists || !view.Effective[enums.AppRoleManager][CanExportData] || view.Effective[enums.AppRoleManager][CanViewReports] {
		t.Fatalf("unexpected view %+v", view.Effective[enums.AppRoleManager])
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Action != enums.AuditActionCreate || entry.EntityType != enums.EntityTypeRoleTemplate {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if len(entry.Changes) != 1 || entry.Changes["manager_can_export_data"].To != true {
		t.Fatalf("unexpected changes %#v", entry.Changes)
	}
}

func TestTemplateViewWithoutRecordShowsFallback(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakeStore{}, nil)
	view, err := svc.Template(context.Background())
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if view.Exists || view.Template == nil {
		t.Fatalf("expected empty template placeholder, got %+v", view)
	}
	if !view.Effective[enums.AppRoleEmployee].Equal(FallbackPermissions(enums.AppRoleEmployee)) {
		t.Fatal("expected fallback table")
	}
}

func TestSetAssignmentLazilyCreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	store, _ := NewTemplateStore(repo)
	rec := &captureRecorder{}
	svc := newTestService(t, repo, store, rec)
	admin := Access{Email: "root@example.com", IsAdmin: true}

	manager := enums.AppRoleManager
	yes := true
	view, err := svc.SetAssignment(ctx, admin, " New.Hire@Example.com ", AssignmentInput{
		Role:      &manager,
		Overrides: map[Capability]*bool{CanExportData: &yes},
	})
	if err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	if view.Email != "new.hire@example.com" || view.Role != enums.AppRoleManager {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.Overrides[CanExportData] {
		t.Fatal("override should be stored")
	}
	if view.Effective[CanManageEmployees] {
		t.Fatal("overrides do not change the resolved capabilities")
	}

	_, err = svc.SetAssignment(ctx, admin, "new.hire@example.com", AssignmentInput{
		Overrides: map[Capability]*bool{CanExportData: nil},
	})
	if err != nil {
		t.Fatalf("clear override: %v", err)
	}

	var rows []models.PermissionAssignment
	if err := conn.Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one assignment, got %d", len(rows))
	}
	if _, ok := rows[0].Overrides[string(CanExportData)]; ok {
		t.Fatal("override should be cleared")
	}
	if rows[0].Role != enums.AppRoleManager {
		t.Fatalf("role should be kept, got %s", rows[0].Role)
	}

	if len(rec.entries) != 2 || rec.entries[0].Action != enums.AuditActionCreate || rec.entries[1].Action != enums.AuditActionUpdate {
		t.Fatalf("unexpected audit entries %+v", rec.entries)
	}

	access := svc.Resolve(ctx, &auth.Identity{Email: "new.hire@example.com"})
	if !access.IsManager || access.IsAdmin {
		t.Fatalf("unexpected access %+v", access)
	}
}

func TestSetAssignmentRejectsBadInput(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakeStore{}, nil)
	admin := Access{Email: "root@example.com", IsAdmin: true}
	bogus := enums.AppRole("owner")

	if _, err := svc.SetAssignment(context.Background(), Access{Email: "x@example.com"}, "a@example.com", AssignmentInput{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.SetAssignment(context.Background(), admin, "not-an-email", AssignmentInput{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetAssignment(context.Background(), admin, "a@example.com", AssignmentInput{Role: &bogus}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnsureAssignmentKeepsExistingRole(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))
	store, _ := NewTemplateStore(repo)
	svc := newTestService(t, repo, store, nil)

	first, err := svc.EnsureAssignment(ctx, "root@example.com", "a@example.com", enums.AppRoleManager)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := svc.EnsureAssignment(ctx, "root@example.com", "a@example.com", enums.AppRoleEmployee)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != second.ID || second.Role != enums.AppRoleManager {
		t.Fatalf("expected the existing assignment, got %+v", second)
	}
}
