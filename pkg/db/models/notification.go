package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a recipient email.
type Notification struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientEmail string                 `gorm:"column:recipient_email;not null;index" json:"recipient_email"`
	Type           enums.NotificationType `gorm:"column:type;not null" json:"type"`
	Title          string                 `gorm:"column:title;not null" json:"title"`
	Message        string                 `gorm:"column:message;not null" json:"message"`
	Link           *string                `gorm:"column:link" json:"link"`
	ReadAt         *time.Time             `gorm:"column:read_at" json:"read_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
