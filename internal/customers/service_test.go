package customers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(_ context.Context, e audit.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func newTestService(t *testing.T) (Service, *captureRecorder) {
	t.Helper()
	rec := &captureRecorder{}
	svc, err := NewService(NewRepository(dbtest.New(t)), rec, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, rec
}

func accessFor(role enums.AppRole) permissions.Access {
	return permissions.Access{
		Email:       string(role) + "@example.com",
		UserRole:    role,
		IsManager:   role == enums.AppRoleManager,
		Permissions: permissions.FallbackPermissions(role),
	}
}

func strPtr(s string) *string { return &s }

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)
	employee := accessFor(enums.AppRoleEmployee)

	created, err := svc.Create(ctx, employee, CreateInput{Name: "  Acme Plumbing ", Email: strPtr("Office@Acme.test")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Acme Plumbing" || *created.Email != "office@acme.test" || !created.IsActive {
		t.Fatalf("unexpected customer %+v", created)
	}
	if created.CreatedBy != employee.Email {
		t.Fatalf("expected created_by %s, got %s", employee.Email, created.CreatedBy)
	}

	updated, err := svc.Update(ctx, employee, created.ID, UpdateInput{Phone: strPtr("555-0100")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != "555-0100" {
		t.Fatalf("phone not updated: %+v", updated)
	}

	got, err := svc.Get(ctx, employee, created.ID)
	if err != nil || got.Name != "Acme Plumbing" {
		t.Fatalf("get: %v %+v", err, got)
	}

	if err := svc.Delete(ctx, employee, created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("employees cannot delete customers, got %v", err)
	}
	if err := svc.Delete(ctx, accessFor(enums.AppRoleManager), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, employee, created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if len(rec.entries) != 3 {
		t.Fatalf("expected create, update and delete audit entries, got %d", len(rec.entries))
	}
	if rec.entries[1].Action != enums.AuditActionUpdate || len(rec.entries[1].Changes) != 1 {
		t.Fatalf("update should only record the phone, got %+v", rec.entries[1].Changes)
	}
	if rec.entries[2].Action != enums.AuditActionDelete || rec.entries[2].EntityID != created.ID.String() {
		t.Fatalf("unexpected delete entry %+v", rec.entries[2])
	}
}

func TestCustomerGating(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	anon := permissions.Anonymous()

	if _, err := svc.List(ctx, anon, ListParams{}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden list, got %v", err)
	}
	if _, err := svc.Create(ctx, anon, CreateInput{Name: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden create, got %v", err)
	}
	if _, err := svc.Update(ctx, accessFor(enums.AppRoleEmployee), uuid.New(), UpdateInput{}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Create(ctx, accessFor(enums.AppRoleEmployee), CreateInput{Name: "   "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCustomerListPaginatesAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	actor := accessFor(enums.AppRoleManager)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, actor, CreateInput{Name: fmt.Sprintf("Customer %d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	inactive, _ := svc.Create(ctx, actor, CreateInput{Name: "Dormant"})
	off := false
	if _, err := svc.Update(ctx, actor, inactive.ID, UpdateInput{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	first, err := svc.List(ctx, actor, ListParams{Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Items) != 3 || first.Cursor == "" {
		t.Fatalf("expected a full first page with cursor, got %d items", len(first.Items))
	}
	second, err := svc.List(ctx, actor, ListParams{Limit: 3, Cursor: first.Cursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Items) != 2 || second.Cursor != "" {
		t.Fatalf("expected the remaining two active customers, got %d", len(second.Items))
	}

	all, _ := svc.List(ctx, actor, ListParams{IncludeInactive: true, Search: "dorm"})
	if len(all.Items) != 1 || all.Items[0].ID != inactive.ID {
		t.Fatalf("expected search to find the inactive customer, got %+v", all.Items)
	}

	if _, err := svc.List(ctx, actor, ListParams{Cursor: "%%%"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid cursor error, got %v", err)
	}
}
