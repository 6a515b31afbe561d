package employees

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/internal/users"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/metrics"
)

// ErrEnumerationDenied is returned by a lookup the caller may not run.
var ErrEnumerationDenied = errors.New("caller may not enumerate user profiles")

// Assignee is an employee that can be picked in an assignment selector.
type Assignee struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	FullName  string           `json:"full_name"`
	Status    enums.UserStatus `json:"status"`
}

// Lookup is one tier of the assignable directory.
type Lookup interface {
	Lookup(ctx context.Context, access permissions.Access) ([]Assignee, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, access permissions.Access) ([]Assignee, error)

func (f LookupFunc) Lookup(ctx context.Context, access permissions.Access) ([]Assignee, error) {
	return f(ctx, access)
}

type profileLister interface {
	List(ctx context.Context, filter users.ListFilter) ([]models.User, error)
}

type assignmentLister interface {
	ListAssignments(ctx context.Context) ([]models.PermissionAssignment, error)
}

// PrimaryLookup enumerates every user profile. Only callers allowed to manage
// employees may enumerate profiles.
func PrimaryLookup(profiles profileLister) Lookup {
	return LookupFunc(func(ctx context.Context, access permissions.Access) ([]Assignee, error) {
		if !access.IsAdmin && !access.Can(permissions.CanManageEmployees) {
			return nil, ErrEnumerationDenied
		}
		rows, err := profiles.List(ctx, users.ListFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]Assignee, 0, len(rows))
		for _, u := range rows {
			out = append(out, Assignee{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				FullName:  u.FullName(),
				Status:    u.Status,
			})
		}
		return out, nil
	})
}

// FallbackLookup derives assignees from permission assignments. Only the email
// is known, so it doubles as the display name.
func FallbackLookup(assignments assignmentLister) Lookup {
	return LookupFunc(func(ctx context.Context, _ permissions.Access) ([]Assignee, error) {
		rows, err := assignments.ListAssignments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Assignee, 0, len(rows))
		for _, a := range rows {
			if a.UserEmail == "" || a.UserEmail == models.RoleTemplateKey {
				continue
			}
			out = append(out, Assignee{
				ID:       a.ID,
				Email:    a.UserEmail,
				FullName: a.UserEmail,
			})
		}
		return out, nil
	})
}

// Directory lists employees eligible for assignment.
type Directory struct {
	primary  Lookup
	fallback Lookup
	logg     *logger.Logger
	metrics  *metrics.PermissionMetrics
}

// NewDirectory composes the two lookup tiers.
func NewDirectory(primary, fallback Lookup, logg *logger.Logger, m *metrics.PermissionMetrics) *Directory {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Directory{primary: primary, fallback: fallback, logg: logg, metrics: m}
}

// Assignable returns active assignees ordered by full name then email. It never
// fails: callers without can_manage_service_logs and total lookup failure both
// yield an empty list.
func (d *Directory) Assignable(ctx context.Context, access permissions.Access) []Assignee {
	if !access.Can(permissions.CanManageServiceLogs) {
		return []Assignee{}
	}

	rows, err := d.run(ctx, d.primary, access)
	if err == nil {
		d.metrics.IncDirectoryLookup(metrics.TierPrimary)
		return finalize(rows)
	}
	if !errors.Is(err, ErrEnumerationDenied) {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "primary employee lookup failed; using permission assignments")
	}

	rows, err = d.run(ctx, d.fallback, access)
	if err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "fallback employee lookup failed")
		d.metrics.IncDirectoryLookup(metrics.TierEmpty)
		return []Assignee{}
	}
	d.metrics.IncDirectoryLookup(metrics.TierFallback)
	return finalize(rows)
}

func (d *Directory) run(ctx context.Context, l Lookup, access permissions.Access) ([]Assignee, error) {
	if l == nil {
		return nil, errors.New("lookup not configured")
	}
	return l.Lookup(ctx, access)
}

func finalize(rows []Assignee) []Assignee {
	out := make([]Assignee, 0, len(rows))
	for _, a := range rows {
		if a.Status == enums.UserStatusInactive {
			continue
		}
		if a.FullName == "" {
			a.FullName = a.Email
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].FullName), strings.ToLower(out[j].FullName)
		if ni != nj {
			return ni < nj
		}
		return out[i].Email < out[j].Email
	})
	return out
}
