package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Repository persists inventory items.
type Repository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, query listQuery) ([]models.InventoryItem, *pagination.Cursor, error)
	Save(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.InventoryItem, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if !q.includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if q.category != "" {
		query = query.Where("category = ?", q.category)
	}
	if q.lowStockOnly {
		query = query.Where("quantity <= reorder_level")
	}
	if s := strings.ToLower(strings.TrimSpace(q.search)); s != "" {
		like := "%" + s + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?", like, like)
	}
	var rows []models.InventoryItem
	if err := query.Scopes(pagination.Newest(q.cursor)).Limit(pagination.LimitWithBuffer(q.limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, q.limit, func(i models.InventoryItem) pagination.Cursor {
		return pagination.Cursor{CreatedAt: i.CreatedAt, ID: i.ID}
	})
	return page, next, nil
}

func (r *repository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
