package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// AuditLog records one mutation with its field-level diff.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType enums.EntityType  `gorm:"column:entity_type;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   string            `gorm:"column:entity_id;not null;index:idx_audit_entity" json:"entity_id"`
	Action     enums.AuditAction `gorm:"column:action;not null" json:"action"`
	ActorEmail string            `gorm:"column:actor_email;not null" json:"actor_email"`
	Changes    dbtypes.JSONMap   `gorm:"column:changes;type:jsonb;not null" json:"changes"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
