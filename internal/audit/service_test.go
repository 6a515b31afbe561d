package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.AuditLog) error
	listFn   func(ctx context.Context, params listParams) ([]models.AuditLog, *pagination.Cursor, error)
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listParams) ([]models.AuditLog, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func TestRecordSkipsEmptyUpdates(t *testing.T) {
	called := false
	svc, _ := NewService(&fakeRepository{createFn: func(context.Context, *models.AuditLog) error {
		called = true
		return nil
	}})

	err := svc.Record(context.Background(), Entry{
		EntityType: enums.EntityTypeCustomer,
		EntityID:   "c1",
		Action:     enums.AuditActionUpdate,
		ActorEmail: "a@example.com",
		Changes:    Changes{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("empty update must not write an audit row")
	}
}

func TestRecordWrapsRepositoryErrors(t *testing.T) {
	svc, _ := NewService(&fakeRepository{createFn: func(context.Context, *models.AuditLog) error {
		return errors.New("boom")
	}})
	err := svc.Record(context.Background(), Entry{
		EntityType: enums.EntityTypeCustomer,
		Action:     enums.AuditActionCreate,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRecordValidatesEntry(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	err := svc.Record(context.Background(), Entry{EntityType: "bogus", Action: enums.AuditActionCreate})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRejectsUnknownEntityType(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	if _, err := svc.List(context.Background(), ListParams{EntityType: "planet"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordAndListAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(NewRepository(dbtest.New(t)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for i, id := range []string{"c1", "c2", "c1"} {
		err := svc.Record(ctx, Entry{
			EntityType: enums.EntityTypeCustomer,
			EntityID:   id,
			Action:     enums.AuditActionUpdate,
			ActorEmail: " Boss@Example.com ",
			Changes:    Changes{"quantity": {From: i, To: i + 1}},
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	result, err := svc.List(ctx, ListParams{EntityType: "customer", EntityID: "c1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 rows for c1, got %d", len(result.Items))
	}
	row := result.Items[0]
	if row.ActorEmail != "boss@example.com" {
		t.Fatalf("expected normalized actor, got %q", row.ActorEmail)
	}
	if _, ok := row.Changes["quantity"]; !ok {
		t.Fatalf("expected stored quantity change, got %#v", row.Changes)
	}

	page, err := svc.List(ctx, ListParams{Limit: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Items) != 1 || page.Cursor == "" {
		t.Fatalf("expected one row and a cursor, got %d %q", len(page.Items), page.Cursor)
	}
}

type recorderFunc func(ctx context.Context, entry Entry) error

func (f recorderFunc) Record(ctx context.Context, entry Entry) error { return f(ctx, entry) }

func TestRecordBestEffortSwallowsErrors(t *testing.T) {
	calls := 0
	rec := recorderFunc(func(context.Context, Entry) error {
		calls++
		return errors.New("down")
	})
	RecordBestEffort(context.Background(), rec, nil, Entry{})
	RecordBestEffort(context.Background(), nil, nil, Entry{})
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

type widget struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Notes     *string `json:"notes"`
	Active    bool    `json:"active"`
	UpdatedAt string  `json:"updated_at"`
}

func TestRecordDiff(t *testing.T) {
	var got []Entry
	rec := recorderFunc(func(_ context.Context, e Entry) error {
		got = append(got, e)
		return nil
	})
	ctx := context.Background()
	before := widget{ID: "w1", Name: "Pump", Active: true, UpdatedAt: "t1"}
	after := before
	after.Name = "Pump v2"
	after.UpdatedAt = "t2"

	RecordDiff(ctx, rec, nil, Entry{EntityType: enums.EntityTypeInventoryItem, EntityID: "w1", Action: enums.AuditActionCreate}, nil, before)
	RecordDiff(ctx, rec, nil, Entry{EntityType: enums.EntityTypeInventoryItem, EntityID: "w1", Action: enums.AuditActionUpdate}, before, after)
	RecordDiff(ctx, rec, nil, Entry{EntityType: enums.EntityTypeInventoryItem, EntityID: "w1", Action: enums.AuditActionDelete}, after, nil)

	if len(got) != 3 {
		t.Fatalf("expected three entries, got %d", len(got))
	}
	if _, ok := got[0].Changes["notes"]; ok {
		t.Fatal("create must skip empty fields")
	}
	if got[0].Changes["name"].To != "Pump" {
		t.Fatalf("unexpected create changes %+v", got[0].Changes)
	}
	if len(got[1].Changes) != 1 || got[1].Changes["name"].From != "Pump" {
		t.Fatalf("update should only carry the name, got %+v", got[1].Changes)
	}
	if got[2].Changes["active"].From != true || got[2].Changes["active"].To != nil {
		t.Fatalf("unexpected delete changes %+v", got[2].Changes)
	}
}
