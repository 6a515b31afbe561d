package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Repository persists audit log rows.
type Repository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, params listParams) ([]models.AuditLog, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listParams struct {
	EntityType enums.EntityType
	EntityID   string
	ActorEmail string
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, params listParams) ([]models.AuditLog, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != "" {
		query = query.Where("entity_id = ?", params.EntityID)
	}
	if params.ActorEmail != "" {
		query = query.Where("actor_email = ?", params.ActorEmail)
	}
	var rows []models.AuditLog
	if err := query.Scopes(pagination.Newest(params.Cursor)).Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, params.Limit, func(row models.AuditLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return page, next, nil
}
