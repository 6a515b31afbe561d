package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// ScheduleEvent is a calendar entry, optionally linked to a service log.
type ScheduleEvent struct {
	ID           uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string                    `gorm:"column:title;not null" json:"title"`
	Description  *string                   `gorm:"column:description" json:"description"`
	CustomerID   *uuid.UUID                `gorm:"type:uuid;column:customer_id" json:"customer_id"`
	ServiceLogID *uuid.UUID                `gorm:"type:uuid;column:service_log_id" json:"service_log_id"`
	AssignedTo   *string                   `gorm:"column:assigned_to" json:"assigned_to"`
	StartsAt     time.Time                 `gorm:"column:starts_at;not null;index" json:"starts_at"`
	EndsAt       *time.Time                `gorm:"column:ends_at" json:"ends_at"`
	AllDay       bool                      `gorm:"column:all_day;not null" json:"all_day"`
	Status       enums.ScheduleEventStatus `gorm:"column:status;not null;default:scheduled" json:"status"`
	CreatedBy    string                    `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (e *ScheduleEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
