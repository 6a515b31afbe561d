package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
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

func employee() permissions.Access {
	return permissions.Access{
		Email:       "tech@example.com",
		UserRole:    enums.AppRoleEmployee,
		Permissions: permissions.FallbackPermissions(enums.AppRoleEmployee),
	}
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

func TestScheduleRangeQuery(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assignee := "Tech@Example.com"

	for i, title := range []string{"Mon", "Tue", "Wed"} {
		in := CreateInput{Title: title, StartsAt: base.Add(time.Duration(i) * 24 * time.Hour)}
		if i == 1 {
			in.AssignedTo = &assignee
		}
		if _, err := svc.Create(ctx, employee(), in); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	from := base.Add(12 * time.Hour)
	rows, err := svc.List(ctx, employee(), ListParams{From: &from})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "Tue" || rows[1].Title != "Wed" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	mine, _ := svc.List(ctx, employee(), ListParams{AssignedTo: "tech@example.com"})
	if len(mine) != 1 || mine[0].Title != "Tue" {
		t.Fatalf("expected the assigned event, got %+v", mine)
	}

	to := base
	if _, err := svc.List(ctx, employee(), ListParams{From: &from, To: &to}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
	if _, err := svc.List(ctx, employee(), ListParams{Status: "later"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for status, got %v", err)
	}
}

func TestScheduleUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	event, err := svc.Create(ctx, employee(), CreateInput{Title: "Install", StartsAt: start})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done := enums.ScheduleEventStatusCompleted
	if _, err := svc.Update(ctx, employee(), event.ID, UpdateInput{Status: &done}); err != nil {
		t.Fatalf("update: %v", err)
	}
	bad := enums.ScheduleEventStatus("paused")
	if _, err := svc.Update(ctx, employee(), event.ID, UpdateInput{Status: &bad}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	earlier := start.Add(-time.Hour)
	if _, err := svc.Update(ctx, employee(), event.ID, UpdateInput{EndsAt: &earlier}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.Delete(ctx, employee(), event.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("employees cannot delete schedule events, got %v", err)
	}
	admin := permissions.Access{Email: "root@example.com", IsAdmin: true, Permissions: permissions.AllTrue()}
	if err := svc.Delete(ctx, admin, event.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, event.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if len(rec.entries) != 3 {
		t.Fatalf("expected create, update and delete entries, got %d", len(rec.entries))
	}
	if rec.entries[1].Changes["status"].To != "completed" {
		t.Fatalf("unexpected update changes %+v", rec.entries[1].Changes)
	}
}

func TestScheduleServiceLog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	date := time.Date(2026, 4, 1, 13, 0, 0, 0, time.UTC)
	log := &models.ServiceLog{ID: uuid.New(), Title: "Boiler service", ServiceDate: &date}

	event, err := svc.ScheduleServiceLog(ctx, employee(), log)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if event.ServiceLogID == nil || *event.ServiceLogID != log.ID || !event.StartsAt.Equal(date) {
		t.Fatalf("unexpected event %+v", event)
	}

	if _, err := svc.ScheduleServiceLog(ctx, employee(), &models.ServiceLog{Title: "No date"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
