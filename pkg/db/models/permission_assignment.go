package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// PermissionAssignment binds a user email to an application role. Overrides
// holds per-user capability flags; keys that are absent are unset.
type PermissionAssignment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail string          `gorm:"column:user_email;not null;uniqueIndex" json:"user_email"`
	Role      enums.AppRole   `gorm:"column:role;not null" json:"role"`
	Overrides dbtypes.FlagMap `gorm:"column:overrides;type:jsonb;not null" json:"overrides"`
	UpdatedBy *string         `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (p *PermissionAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Overrides == nil {
		p.Overrides = dbtypes.FlagMap{}
	}
	return nil
}
