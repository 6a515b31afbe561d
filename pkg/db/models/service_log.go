package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// ServiceLog is a service ticket performed for a customer.
type ServiceLog struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID      *uuid.UUID               `gorm:"type:uuid;column:customer_id;index" json:"customer_id"`
	Title           string                   `gorm:"column:title;not null" json:"title"`
	Description     *string                  `gorm:"column:description" json:"description"`
	Status          enums.ServiceLogStatus   `gorm:"column:status;not null;default:open" json:"status"`
	Priority        enums.ServiceLogPriority `gorm:"column:priority;not null;default:normal" json:"priority"`
	AssignedTo      *string                  `gorm:"column:assigned_to;index" json:"assigned_to"`
	ServiceDate     *time.Time               `gorm:"column:service_date" json:"service_date"`
	ScheduleEventID *uuid.UUID               `gorm:"type:uuid;column:schedule_event_id" json:"schedule_event_id"`
	LaborHours      decimal.Decimal          `gorm:"column:labor_hours;type:numeric(8,2);not null" json:"labor_hours"`
	Charge          decimal.Decimal          `gorm:"column:charge;type:numeric(12,2);not null" json:"charge"`
	Notes           *string                  `gorm:"column:notes" json:"notes"`
	CompletedAt     *time.Time               `gorm:"column:completed_at" json:"completed_at"`
	CreatedBy       string                   `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (s *ServiceLog) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
