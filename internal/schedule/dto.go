package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// CreateInput is the payload for a new calendar event.
type CreateInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description"`
	CustomerID  *uuid.UUID `json:"customer_id"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,email"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	AllDay      bool       `json:"all_day"`
}

// ToModel converts the payload into a scheduled event.
func (in CreateInput) ToModel(createdBy string) *models.ScheduleEvent {
	return &models.ScheduleEvent{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		CustomerID:  in.CustomerID,
		AssignedTo:  normalizeAssignee(in.AssignedTo),
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      utcPtr(in.EndsAt),
		AllDay:      in.AllDay,
		Status:      enums.ScheduleEventStatusScheduled,
		CreatedBy:   createdBy,
	}
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	Title       *string                    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string                    `json:"description"`
	CustomerID  *uuid.UUID                 `json:"customer_id"`
	AssignedTo  *string                    `json:"assigned_to" validate:"omitempty,email"`
	StartsAt    *time.Time                 `json:"starts_at"`
	EndsAt      *time.Time                 `json:"ends_at"`
	AllDay      *bool                      `json:"all_day"`
	Status      *enums.ScheduleEventStatus `json:"status" validate:"omitempty,enum"`
}

// Apply copies the set fields onto the event.
func (in UpdateInput) Apply(e *models.ScheduleEvent) {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	if in.CustomerID != nil {
		e.CustomerID = in.CustomerID
	}
	if in.AssignedTo != nil {
		e.AssignedTo = normalizeAssignee(in.AssignedTo)
	}
	if in.StartsAt != nil {
		e.StartsAt = in.StartsAt.UTC()
	}
	if in.EndsAt != nil {
		e.EndsAt = utcPtr(in.EndsAt)
	}
	if in.AllDay != nil {
		e.AllDay = *in.AllDay
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
}

// ListParams bounds the calendar query.
type ListParams struct {
	From       *time.Time
	To         *time.Time
	AssignedTo string
	Status     string
	Limit      int
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
