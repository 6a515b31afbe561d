package servicelogs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// CreateInput is the payload for a new service log.
type CreateInput struct {
	CustomerID  *uuid.UUID                `json:"customer_id"`
	Title       string                    `json:"title" validate:"required,max=200"`
	Description *string                   `json:"description"`
	Priority    *enums.ServiceLogPriority `json:"priority" validate:"omitempty,enum"`
	AssignedTo  *string                   `json:"assigned_to" validate:"omitempty,email"`
	ServiceDate *time.Time                `json:"service_date"`
	LaborHours  *decimal.Decimal          `json:"labor_hours"`
	Charge      *decimal.Decimal          `json:"charge"`
	Notes       *string                   `json:"notes"`
}

// ToModel converts the payload into an open service log.
func (in CreateInput) ToModel(createdBy string) *models.ServiceLog {
	log := &models.ServiceLog{
		CustomerID:  in.CustomerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      enums.ServiceLogStatusOpen,
		Priority:    enums.ServiceLogPriorityNormal,
		AssignedTo:  normalizeAssignee(in.AssignedTo),
		ServiceDate: utcPtr(in.ServiceDate),
		LaborHours:  decimal.Zero,
		Charge:      decimal.Zero,
		Notes:       in.Notes,
		CreatedBy:   createdBy,
	}
	if in.Priority != nil {
		log.Priority = *in.Priority
	}
	if in.LaborHours != nil {
		log.LaborHours = in.LaborHours.Round(2)
	}
	if in.Charge != nil {
		log.Charge = in.Charge.Round(2)
	}
	return log
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	CustomerID  *uuid.UUID                `json:"customer_id"`
	Title       *string                   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string                   `json:"description"`
	Status      *enums.ServiceLogStatus   `json:"status" validate:"omitempty,enum"`
	Priority    *enums.ServiceLogPriority `json:"priority" validate:"omitempty,enum"`
	AssignedTo  *string                   `json:"assigned_to" validate:"omitempty,email"`
	ServiceDate *time.Time                `json:"service_date"`
	LaborHours  *decimal.Decimal          `json:"labor_hours"`
	Charge      *decimal.Decimal          `json:"charge"`
	Notes       *string                   `json:"notes"`
}

// Apply copies the set fields onto the log and stamps completion.
func (in UpdateInput) Apply(log *models.ServiceLog, now time.Time) {
	if in.CustomerID != nil {
		log.CustomerID = in.CustomerID
	}
	if in.Title != nil {
		log.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		log.Description = in.Description
	}
	if in.Priority != nil {
		log.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		log.AssignedTo = normalizeAssignee(in.AssignedTo)
	}
	if in.ServiceDate != nil {
		log.ServiceDate = utcPtr(in.ServiceDate)
	}
	if in.LaborHours != nil {
		log.LaborHours = in.LaborHours.Round(2)
	}
	if in.Charge != nil {
		log.Charge = in.Charge.Round(2)
	}
	if in.Notes != nil {
		log.Notes = in.Notes
	}
	if in.Status != nil && *in.Status != log.Status {
		log.Status = *in.Status
		if log.Status == enums.ServiceLogStatusCompleted {
			completed := now.UTC()
			log.CompletedAt = &completed
		} else {
			log.CompletedAt = nil
		}
	}
}

// ListParams filters the service log list.
type ListParams struct {
	Status     string
	AssignedTo string
	CustomerID *uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult is one page of service logs.
type ListResult struct {
	Items  []models.ServiceLog `json:"items"`
	Cursor string              `json:"cursor"`
}

// CreateResult is the stored log with the outcome of its follow-up steps.
type CreateResult struct {
	ServiceLog    models.ServiceLog     `json:"service_log"`
	ScheduleEvent *models.ScheduleEvent `json:"schedule_event"`
	Warnings      []string              `json:"warnings,omitempty"`
}

type listQuery struct {
	status     enums.ServiceLogStatus
	assignedTo string
	customerID *uuid.UUID
	limit      int
	cursor     *pagination.Cursor
}

func normalizeAssignee(v *string) *string {
	if v == nil {
		return nil
	}
	email := auth.NormalizeEmail(*v)
	if email == "" {
		return nil
	}
	return &email
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
