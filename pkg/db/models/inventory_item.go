package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem tracks a stocked part or supply.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	SKU          *string         `gorm:"column:sku;uniqueIndex" json:"sku"`
	Category     *string         `gorm:"column:category" json:"category"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	ReorderLevel int             `gorm:"column:reorder_level;not null" json:"reorder_level"`
	UnitCost     decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null" json:"unit_cost"`
	Location     *string         `gorm:"column:location" json:"location"`
	Notes        *string         `gorm:"column:notes" json:"notes"`
	IsActive     bool            `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// LowStock reports whether the quantity is at or below the reorder level.
func (i InventoryItem) LowStock() bool {
	return i.IsActive && i.Quantity <= i.ReorderLevel
}
