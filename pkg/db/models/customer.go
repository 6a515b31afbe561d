package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a client of the business.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Company   *string   `gorm:"column:company" json:"company"`
	Email     *string   `gorm:"column:email" json:"email"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Address   *string   `gorm:"column:address" json:"address"`
	Notes     *string   `gorm:"column:notes" json:"notes"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedBy string    `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
