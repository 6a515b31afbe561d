package servicelogs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/notifications"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Service exposes service log operations gated by the caller's access.
type Service interface {
	List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error)
	Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.ServiceLog, error)
	Create(ctx context.Context, actor permissions.Access, input CreateInput) (*CreateResult, error)
	Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.ServiceLog, error)
	Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error
}

type scheduler interface {
	ScheduleServiceLog(ctx context.Context, actor permissions.Access, log *models.ServiceLog) (*models.ScheduleEvent, error)
}

type notifier interface {
	Notify(ctx context.Context, notice notifications.Notice)
}

// ServiceParams groups the service log dependencies.
type ServiceParams struct {
	Repo     Repository
	Schedule scheduler
	Notifier notifier
	Audit    audit.Recorder
	Logger   *logger.Logger
	Clock    func() time.Time
	// Dispatch runs fire-and-forget work. Defaults to a new goroutine.
	Dispatch func(func())
}

type service struct {
	repo     Repository
	schedule scheduler
	notifier notifier
	audit    audit.Recorder
	logg     *logger.Logger
	now      func() time.Time
	dispatch func(func())
}

// NewService wires the service log service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "service log repository required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	dispatch := params.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { go fn() }
	}
	return &service{
		repo:     params.Repo,
		schedule: params.Schedule,
		notifier: params.Notifier,
		audit:    params.Audit,
		logg:     logg,
		now:      now,
		dispatch: dispatch,
	}, nil
}

func (s *service) List(ctx context.Context, actor permissions.Access, params ListParams) (*ListResult, error) {
	if err := actor.Require(permissions.CanViewServiceLogs); err != nil {
		return nil, err
	}
	query := listQuery{
		assignedTo: auth.NormalizeEmail(params.AssignedTo),
		customerID: params.CustomerID,
		limit:      params.Limit,
	}
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseServiceLogStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		query.status = status
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	query.cursor = cursor

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service logs")
	}
	result := &ListResult{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, actor permissions.Access, id uuid.UUID) (*models.ServiceLog, error) {
	if err := actor.Require(permissions.CanViewServiceLogs); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create stores the log, books its calendar event when a service date is
// set, then links the event back onto the log. The steps run in sequence
// without a surrounding transaction; a failed follow-up leaves the earlier
// rows in place and is reported as a warning.
func (s *service) Create(ctx context.Context, actor permissions.Access, input CreateInput) (*CreateResult, error) {
	if err := actor.Require(permissions.CanManageServiceLogs); err != nil {
		return nil, err
	}
	log := input.ToModel(actor.Email)
	if err := validate(log); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service log")
	}
	s.record(ctx, actor, log.ID, enums.AuditActionCreate, nil, log)

	result := &CreateResult{}
	ctx = s.logg.WithField(ctx, "service_log_id", log.ID.String())
	if log.ServiceDate != nil && s.schedule != nil {
		event, err := s.schedule.ScheduleServiceLog(ctx, actor, log)
		if err != nil {
			s.logg.Error(ctx, "schedule event for service log failed", err)
			result.Warnings = append(result.Warnings, "schedule event could not be created")
		} else {
			result.ScheduleEvent = event
			before := *log
			log.ScheduleEventID = &event.ID
			if err := s.repo.Save(ctx, log); err != nil {
				s.logg.Error(ctx, "linking schedule event to service log failed", err)
				result.Warnings = append(result.Warnings, "schedule event could not be linked")
				log.ScheduleEventID = nil
			} else {
				s.record(ctx, actor, log.ID, enums.AuditActionUpdate, before, log)
			}
		}
	}

	s.notifyAssignee(ctx, actor, log)
	result.ServiceLog = *log
	return result, nil
}

func (s *service) Update(ctx context.Context, actor permissions.Access, id uuid.UUID, input UpdateInput) (*models.ServiceLog, error) {
	if err := actor.Require(permissions.CanManageServiceLogs); err != nil {
		return nil, err
	}
	log, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *log
	input.Apply(log, s.now())
	if err := validate(log); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, log); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service log")
	}
	s.record(ctx, actor, id, enums.AuditActionUpdate, before, log)

	if !sameAssignee(before.AssignedTo, log.AssignedTo) {
		s.notifyAssignee(ctx, actor, log)
	}
	return log, nil
}

func (s *service) Delete(ctx context.Context, actor permissions.Access, id uuid.UUID) error {
	if err := actor.Require(permissions.CanDeleteServiceLogs); err != nil {
		return err
	}
	log, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("service log")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service log")
	}
	s.record(ctx, actor, id, enums.AuditActionDelete, log, nil)
	return nil
}

// notifyAssignee tells a newly assigned employee about the log. Self
// assignment is silent.
func (s *service) notifyAssignee(ctx context.Context, actor permissions.Access, log *models.ServiceLog) {
	if s.notifier == nil || log.AssignedTo == nil || *log.AssignedTo == actor.Email {
		return
	}
	notice := notifications.Notice{
		RecipientEmail: *log.AssignedTo,
		Type:           enums.NotificationTypeAssignment,
		Title:          "New service log assigned",
		Message:        fmt.Sprintf("%s assigned you %q.", actor.Email, log.Title),
		Link:           "/service-logs/" + log.ID.String(),
		Email:          true,
	}
	detached := context.WithoutCancel(ctx)
	s.dispatch(func() {
		s.notifier.Notify(detached, notice)
	})
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.ServiceLog, error) {
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("service log")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service log")
	}
	return log, nil
}

func (s *service) record(ctx context.Context, actor permissions.Access, id uuid.UUID, action enums.AuditAction, before, after any) {
	audit.RecordDiff(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypeServiceLog,
		EntityID:   id.String(),
		Action:     action,
		ActorEmail: actor.Email,
	}, before, after)
}

func validate(log *models.ServiceLog) error {
	switch {
	case log.Title == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	case !log.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	case !log.Priority.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	case log.LaborHours.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "labor hours cannot be negative")
	case log.Charge.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "charge cannot be negative")
	}
	return nil
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
