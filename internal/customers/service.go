package customers

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

// Service exposes customer operations gated by the caller's access.
type Service interface {
	List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error)
	Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.Customer, error)
	Create(ctx context.Context, actor permissions.Access, input CreateInput) (*models.Customer, error)
	Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.Customer, error)
	Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error
}

type service struct {
	repo  Repository
	audit audit.Recorder
	logg  *logger.Logger
}

// NewService wires the customer service.
func NewService(repo Repository, recorder audit.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "customers repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, audit: recorder, logg: logg}, nil
}

func (s *service) List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error) {
	if err := actor.Require(permissions.CanViewCustomers); err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.List(ctx, listQuery{
		search:          params.Search,
		includeInactive: params.IncludeInactive,
		limit:           params.Limit,
		cursor:          cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	result := &ListResult{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.Customer, error) {
	if err := actor.Require(permissions.CanViewCustomers); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("customer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) Create(ctx context.Context, actor permissions.Access, input CreateInput) (*models.Customer, error) {
	if err := actor.Require(permissions.CanManageCustomers); err != nil {
		return nil, err
	}
	customer := input.ToModel(actor.Email)
	if customer.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	s.record(ctx, actor, customer.ID, enums.AuditActionCreate, nil, customer)
	return customer, nil
}

func (s *service) Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.Customer, error) {
	if err := actor.Require(permissions.CanManageCustomers); err != nil {
		return nil, err
	}
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *customer
	input.Apply(customer)
	if customer.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	s.record(ctx, actor, id, enums.AuditActionUpdate, before, customer)
	return customer, nil
}

func (s *service) Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error {
	if err := actor.Require(permissions.CanDeleteCustomers); err != nil {
		return err
	}
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("customer")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	s.record(ctx, actor, id, enums.AuditActionDelete, customer, nil)
	return nil
}

func (s *service) record(ctx context.Context, actor permissions.Access, id uuid.UUID, action enums.AuditAction, before, after any) {
	audit.RecordDiff(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypeCustomer,
		EntityID:   id.String(),
		Action:     action,
		ActorEmail: actor.Email,
	}, before, after)
}
