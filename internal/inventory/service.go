package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Service exposes inventory operations gated by the caller's access.
type Service interface {
	List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error)
	Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*ItemView, error)
	Create(ctx context.Context, actor permissions.Access, input CreateInput) (*ItemView, error)
	Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*ItemView, error)
	Adjust(ctx context.Context, actor permissions.Access, id uuid.UUID, input AdjustInput) (*ItemView, error)
	Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error
}

type service struct {
	repo  Repository
	audit audit.Recorder
	logg  *logger.Logger
}

// NewService wires the inventory service.
func NewService(repo Repository, recorder audit.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, audit: recorder, logg: logg}, nil
}

func (s *service) List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error) {
	if err := actor.Require(permissions.CanViewInventory); err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.List(ctx, listQuery{
		search:          params.Search,
		category:        params.Category,
		lowStockOnly:    params.LowStockOnly,
		includeInactive: params.IncludeInactive,
		limit:           params.Limit,
		cursor:          cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	result := &ListResult{Items: make([]ItemView, 0, len(rows))}
	for _, row := range rows {
		result.Items = append(result.Items, newItemView(row))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*ItemView, error) {
	if err := actor.Require(permissions.CanViewInventory); err != nil {
		return nil, err
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newItemView(*item)
	return &view, nil
}

func (s *service) Create(ctx context.Context, actor permissions.Access, input CreateInput) (*ItemView, error) {
	if err := actor.Require(permissions.CanManageInventory); err != nil {
		return nil, err
	}
	item := input.ToModel()
	if err := validate(item.Name, item.Quantity, item.ReorderLevel, item.UnitCost.IsNegative()); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.writeError(err, "create inventory item")
	}
	s.record(ctx, actor, item.ID, enums.AuditActionCreate, nil, item)
	view := newItemView(*item)
	return &view, nil
}

func (s *service) Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*ItemView, error) {
	if err := actor.Require(permissions.CanManageInventory); err != nil {
		return nil, err
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *item
	input.Apply(item)
	if err := validate(item.Name, item.Quantity, item.ReorderLevel, item.UnitCost.IsNegative()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, s.writeError(err, "update inventory item")
	}
	s.record(ctx, actor, id, enums.AuditActionUpdate, before, item)
	view := newItemView(*item)
	return &view, nil
}

// Adjust applies a stock movement. Quantity never drops below zero.
func (s *service) Adjust(ctx context.Context, actor permissions.Access, id uuid.UUID, input AdjustInput) (*ItemView, error) {
	if err := actor.Require(permissions.CanManageInventory); err != nil {
		return nil, err
	}
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Quantity+input.Delta < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{"quantity": item.Quantity, "delta": input.Delta})
	}
	before := *item
	item.Quantity += input.Delta
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, s.writeError(err, "adjust inventory item")
	}
	s.record(ctx, actor, id, enums.AuditActionUpdate, before, item)

	view := newItemView(*item)
	if view.LowStock && !before.LowStock() {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"item_id":  id.String(),
			"quantity": item.Quantity,
		}), "inventory item reached reorder level")
	}
	return &view, nil
}

func (s *service) Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error {
	if err := actor.Require(permissions.CanDeleteInventory); err != nil {
		return err
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("inventory item")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	s.record(ctx, actor, id, enums.AuditActionDelete, item, nil)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("inventory item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) writeError(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func (s *service) record(ctx context.Context, actor permissions.Access, id uuid.UUID, action enums.AuditAction, before, after any) {
	audit.RecordDiff(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypeInventoryItem,
		EntityID:   id.String(),
		Action:     action,
		ActorEmail: actor.Email,
	}, before, after)
}

func validate(name string, quantity, reorderLevel int, negativeCost bool) error {
	switch {
	case name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case quantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	case reorderLevel < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
	case negativeCost:
		return pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}
	return nil
}
