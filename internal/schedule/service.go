package schedule

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Service exposes calendar operations gated by the caller's access.
type Service interface {
	List(ctx context.Context, actor permissions.Access, params ListParams) ([]models.ScheduleEvent, error)
	Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.ScheduleEvent, error)
	Create(ctx context.Context, actor permissions.Access, input CreateInput) (*models.ScheduleEvent, error)
	Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.ScheduleEvent, error)
	Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error
	ScheduleServiceLog(ctx context.Context, actor permissions.Access, log *models.ServiceLog) (*models.ScheduleEvent, error)
}

type service struct {
	repo  Repository
	audit audit.Recorder
	logg  *logger.Logger
}

// NewService wires the schedule service.
func NewService(repo Repository, recorder audit.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "schedule repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, audit: recorder, logg: logg}, nil
}

func (s *service) List(ctx context.Context, actor permissions.Access, params ListParams) ([]models.ScheduleEvent, error) {
	if err := actor.Require(permissions.CanViewSchedule); err != nil {
		return nil, err
	}
	query := listQuery{
		from:       utcPtr(params.From),
		to:         utcPtr(params.To),
		assignedTo: auth.NormalizeEmail(params.AssignedTo),
		limit:      pagination.NormalizeLimit(params.Limit),
	}
	if query.from != nil && query.to != nil && !query.to.After(*query.from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseScheduleEventStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		query.status = status
	}
	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedule events")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.ScheduleEvent, error) {
	if err := actor.Require(permissions.CanViewSchedule); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) Create(ctx context.Context, actor permissions.Access, input CreateInput) (*models.ScheduleEvent, error) {
	if err := actor.Require(permissions.CanManageSchedule); err != nil {
		return nil, err
	}
	return s.create(ctx, actor, input.ToModel(actor.Email))
}

// ScheduleServiceLog books the calendar event for a service log with a
// service date. The caller authorizes through service log management.
func (s *service) ScheduleServiceLog(ctx context.Context, actor permissions.Access, log *models.ServiceLog) (*models.ScheduleEvent, error) {
	if log == nil || log.ServiceDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service date required")
	}
	id := log.ID
	event := CreateInput{
		Title:       log.Title,
		Description: log.Description,
		CustomerID:  log.CustomerID,
		AssignedTo:  log.AssignedTo,
		StartsAt:    *log.ServiceDate,
	}.ToModel(actor.Email)
	event.ServiceLogID = &id
	return s.create(ctx, actor, event)
}

func (s *service) create(ctx context.Context, actor permissions.Access, event *models.ScheduleEvent) (*models.ScheduleEvent, error) {
	if err := validate(event); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create schedule event")
	}
	s.record(ctx, actor, event.ID, enums.AuditActionCreate, nil, event)
	return event, nil
}

func (s *service) Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.ScheduleEvent, error) {
	if err := actor.Require(permissions.CanManageSchedule); err != nil {
		return nil, err
	}
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *event
	input.Apply(event)
	if err := validate(event); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update schedule event")
	}
	s.record(ctx, actor, id, enums.AuditActionUpdate, before, event)
	return event, nil
}

func (s *service) Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error {
	if err := actor.Require(permissions.CanDeleteSchedule); err != nil {
		return err
	}
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("schedule event")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete schedule event")
	}
	s.record(ctx, actor, id, enums.AuditActionDelete, event, nil)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.ScheduleEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("schedule event")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load schedule event")
	}
	return event, nil
}

func (s *service) record(ctx context.Context, actor permissions.Access, id uuid.UUID, action enums.AuditAction, before, after any) {
	audit.RecordDiff(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypeScheduleEvent,
		EntityID:   id.String(),
		Action:     action,
		ActorEmail: actor.Email,
	}, before, after)
}

func validate(e *models.ScheduleEvent) error {
	switch {
	case e.Title == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	case e.StartsAt.IsZero():
		return pkgerrors.New(pkgerrors.CodeValidation, "starts_at is required")
	case e.EndsAt != nil && e.EndsAt.Before(e.StartsAt):
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must not be before starts_at")
	case !e.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	return nil
}
