package reports

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

const (
	summaryListLimit = 10
	exportRowLimit   = 5000
)

// Counts aggregates the size of each resource.
type Counts struct {
	Customers           int64                            `json:"customers"`
	ActiveCustomers     int64                            `json:"active_customers"`
	InventoryItems      int64                            `json:"inventory_items"`
	LowStockItems       int64                            `json:"low_stock_items"`
	ServiceLogs         int64                            `json:"service_logs"`
	ServiceLogsByStatus map[enums.ServiceLogStatus]int64 `json:"service_logs_by_status"`
	UpcomingEvents      int64                            `json:"upcoming_events"`
	ActiveEmployees     int64                            `json:"active_employees"`
}

// Summary is the dashboard report.
type Summary struct {
	Counts          Counts                 `json:"counts"`
	LowStock        []models.InventoryItem `json:"low_stock"`
	OpenServiceLogs []models.ServiceLog    `json:"open_service_logs"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// Service builds dashboard summaries and data exports.
type Service interface {
	Summary(ctx context.Context, actor permissions.Access) (*Summary, error)
	Export(ctx context.Context, actor permissions.Access, resource Resource, format Format) (*Export, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the reports service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context, actor permissions.Access) (*Summary, error) {
	if err := actor.Require(permissions.CanViewReports); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	counts, err := s.repo.Counts(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count resources")
	}
	low, err := s.repo.LowStock(ctx, summaryListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	open, err := s.repo.OpenServiceLogs(ctx, summaryListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open service logs")
	}
	return &Summary{
		Counts:          *counts,
		LowStock:        low,
		OpenServiceLogs: open,
		GeneratedAt:     now,
	}, nil
}

func (s *service) Export(ctx context.Context, actor permissions.Access, resource Resource, format Format) (*Export, error) {
	if err := actor.Require(permissions.CanExportData); err != nil {
		return nil, err
	}
	format = Format(strings.ToLower(string(format)))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "format must be csv or pdf")
	}

	t, err := s.table(ctx, resource)
	if err != nil {
		return nil, err
	}
	out, err := encode(*t, format, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode export")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"resource": resource,
		"format":   format,
		"rows":     len(t.Rows),
	}), "data export generated")
	return out, nil
}

func (s *service) table(ctx context.Context, resource Resource) (*table, error) {
	switch resource {
	case ResourceCustomers:
		rows, err := s.repo.Customers(ctx, exportRowLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customers")
		}
		t := &table{Title: string(resource), Headers: []string{"id", "name", "company", "email", "phone", "active", "created_at"}}
		for _, c := range rows {
			t.Rows = append(t.Rows, []string{
				c.ID.String(), c.Name, deref(c.Company), deref(c.Email), deref(c.Phone),
				strconv.FormatBool(c.IsActive), c.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return t, nil
	case ResourceInventory:
		rows, err := s.repo.Inventory(ctx, exportRowLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
		}
		t := &table{Title: string(resource), Headers: []string{"id", "name", "sku", "category", "quantity", "reorder_level", "unit_cost", "low_stock"}}
		for _, i := range rows {
			t.Rows = append(t.Rows, []string{
				i.ID.String(), i.Name, deref(i.SKU), deref(i.Category),
				strconv.Itoa(i.Quantity), strconv.Itoa(i.ReorderLevel), i.UnitCost.StringFixed(2),
				strconv.FormatBool(i.LowStock()),
			})
		}
		return t, nil
	case ResourceServiceLogs:
		rows, err := s.repo.ServiceLogs(ctx, exportRowLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service logs")
		}
		t := &table{Title: string(resource), Headers: []string{"id", "title", "status", "priority", "assigned_to", "service_date", "labor_hours", "charge"}}
		for _, l := range rows {
			t.Rows = append(t.Rows, []string{
				l.ID.String(), l.Title, string(l.Status), string(l.Priority), deref(l.AssignedTo),
				formatTime(l.ServiceDate), l.LaborHours.StringFixed(2), l.Charge.StringFixed(2),
			})
		}
		return t, nil
	case ResourceSchedule:
		rows, err := s.repo.ScheduleEvents(ctx, exportRowLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load schedule")
		}
		t := &table{Title: string(resource), Headers: []string{"id", "title", "status", "assigned_to", "starts_at", "ends_at"}}
		for _, e := range rows {
			t.Rows = append(t.Rows, []string{
				e.ID.String(), e.Title, string(e.Status), deref(e.AssignedTo),
				e.StartsAt.UTC().Format(time.RFC3339), formatTime(e.EndsAt),
			})
		}
		return t, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown export resource").
		WithDetails(map[string]any{"resource": string(resource)})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
