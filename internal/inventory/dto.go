package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// CreateInput is the payload for a new inventory item.
type CreateInput struct {
	Name         string           `json:"name" validate:"required,max=200"`
	SKU          *string          `json:"sku" validate:"omitempty,max=64"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	Quantity     int              `json:"quantity" validate:"gte=0"`
	ReorderLevel int              `json:"reorder_level" validate:"gte=0"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Location     *string          `json:"location" validate:"omitempty,max=100"`
	Notes        *string          `json:"notes"`
}

// ToModel converts the payload into a new active item.
func (in CreateInput) ToModel() *models.InventoryItem {
	item := &models.InventoryItem{
		Name:         strings.TrimSpace(in.Name),
		SKU:          upperPtr(in.SKU),
		Category:     in.Category,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     decimal.Zero,
		Location:     in.Location,
		Notes:        in.Notes,
		IsActive:     true,
	}
	if in.UnitCost != nil {
		item.UnitCost = in.UnitCost.Round(2)
	}
	return item
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU          *string          `json:"sku" validate:"omitempty,max=64"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	Quantity     *int             `json:"quantity" validate:"omitempty,gte=0"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Location     *string          `json:"location" validate:"omitempty,max=100"`
	Notes        *string          `json:"notes"`
	IsActive     *bool            `json:"is_active"`
}

// Apply copies the set fields onto the item.
func (in UpdateInput) Apply(item *models.InventoryItem) {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		item.SKU = upperPtr(in.SKU)
	}
	if in.Category != nil {
		item.Category = in.Category
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitCost != nil {
		item.UnitCost = in.UnitCost.Round(2)
	}
	if in.Location != nil {
		item.Location = in.Location
	}
	if in.Notes != nil {
		item.Notes = in.Notes
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
}

// AdjustInput moves stock by a signed delta.
type AdjustInput struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// ListParams filters the inventory list.
type ListParams struct {
	Search          string
	Category        string
	LowStockOnly    bool
	IncludeInactive bool
	Limit           int
	Cursor          string
}

// ListResult is one page of items.
type ListResult struct {
	Items  []ItemView `json:"items"`
	Cursor string     `json:"cursor"`
}

// ItemView is an item with its derived stock state.
type ItemView struct {
	models.InventoryItem
	LowStock bool `json:"low_stock"`
}

func newItemView(item models.InventoryItem) ItemView {
	return ItemView{InventoryItem: item, LowStock: item.LowStock()}
}

type listQuery struct {
	search          string
	category        string
	lowStockOnly    bool
	includeInactive bool
	limit           int
	cursor          *pagination.Cursor
}

func upperPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(*v))
	if s == "" {
		return nil
	}
	return &s
}
