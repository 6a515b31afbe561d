package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
)

// RoleTemplateKey addresses the singleton role template row.
const RoleTemplateKey = "role_templates"

// RoleTemplate stores the default capabilities per role as role-prefixed
// keys (for example manager_can_view_reports). Values are kept as written.
type RoleTemplate struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string          `gorm:"column:template_key;not null;uniqueIndex" json:"template_key"`
	Fields    dbtypes.JSONMap `gorm:"column:fields;type:jsonb;not null" json:"fields"`
	UpdatedBy *string         `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (r *RoleTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.Key == "" {
		r.Key = RoleTemplateKey
	}
	if r.Fields == nil {
		r.Fields = dbtypes.JSONMap{}
	}
	return nil
}
