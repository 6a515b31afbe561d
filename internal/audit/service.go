package audit

import (
	"context"
	"strings"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Entry describes one mutation to record.
type Entry struct {
	EntityType enums.EntityType
	EntityID   string
	Action     enums.AuditAction
	ActorEmail string
	Changes    Changes
}

// Recorder writes audit entries. Domain services depend on this.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Service records and lists the audit trail.
type Service interface {
	Recorder
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ListParams filters the audit trail.
type ListParams struct {
	EntityType string
	EntityID   string
	ActorEmail string
	Limit      int
	Cursor     string
}

// ListResult wraps returned audit rows and the cursor for the next page.
type ListResult struct {
	Items  []models.AuditLog `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo Repository
}

// NewService wires audit dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit repository required")
	}
	return &service{repo: repo}, nil
}

// Record writes the entry. Updates without changes are skipped.
func (s *service) Record(ctx context.Context, entry Entry) error {
	if !entry.EntityType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if !entry.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid audit action")
	}
	if entry.Action == enums.AuditActionUpdate && len(entry.Changes) == 0 {
		return nil
	}

	row := &models.AuditLog{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		ActorEmail: strings.ToLower(strings.TrimSpace(entry.ActorEmail)),
		Changes:    dbtypes.JSONMap(entry.Changes.Fields()),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listParams{
		EntityID:   strings.TrimSpace(params.EntityID),
		ActorEmail: strings.ToLower(strings.TrimSpace(params.ActorEmail)),
		Limit:      params.Limit,
	}
	if raw := strings.TrimSpace(params.EntityType); raw != "" {
		entityType, err := enums.ParseEntityType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity type")
		}
		query.EntityType = entityType
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// RecordBestEffort records the entry and logs a failure instead of returning it.
// The mutation it describes has already been committed.
func RecordBestEffort(ctx context.Context, rec Recorder, logg *logger.Logger, entry Entry) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, entry); err != nil && logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"action":      entry.Action,
		})
		logg.Error(ctx, "audit record failed", err)
	}
}

// RecordDiff snapshots before and after, derives the changes for entry.Action
// and records them best effort. Creates ignore before, deletes ignore after.
// updated_at never takes part in the diff.
func RecordDiff(ctx context.Context, rec Recorder, logg *logger.Logger, entry Entry, before, after any) {
	if rec == nil {
		return
	}
	var prev, next map[string]any
	var err error
	if entry.Action != enums.AuditActionCreate {
		if prev, err = Snapshot(before); err != nil {
			logSnapshotError(ctx, logg, entry, err)
			return
		}
		delete(prev, "updated_at")
	}
	if entry.Action != enums.AuditActionDelete {
		if next, err = Snapshot(after); err != nil {
			logSnapshotError(ctx, logg, entry, err)
			return
		}
		delete(next, "updated_at")
	}

	switch entry.Action {
	case enums.AuditActionCreate:
		entry.Changes = CreateChanges(next)
	case enums.AuditActionDelete:
		entry.Changes = DeleteChanges(prev)
	default:
		entry.Changes = ComputeChanges(prev, next)
	}
	RecordBestEffort(ctx, rec, logg, entry)
}

func logSnapshotError(ctx context.Context, logg *logger.Logger, entry Entry, err error) {
	if logg == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "entity_type", entry.EntityType), "audit snapshot failed", err)
}
