package servicelogs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Repository persists service logs.
type Repository interface {
	Create(ctx context.Context, log *models.ServiceLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceLog, error)
	List(ctx context.Context, query listQuery) ([]models.ServiceLog, *pagination.Cursor, error)
	Save(ctx context.Context, log *models.ServiceLog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a service log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *models.ServiceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceLog, error) {
	var log models.ServiceLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.ServiceLog, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.ServiceLog{})
	if q.status != "" {
		query = query.Where("status = ?", q.status)
	}
	if q.assignedTo != "" {
		query = query.Where("assigned_to = ?", q.assignedTo)
	}
	if q.customerID != nil {
		query = query.Where("customer_id = ?", *q.customerID)
	}
	var rows []models.ServiceLog
	if err := query.Scopes(pagination.Newest(q.cursor)).Limit(pagination.LimitWithBuffer(q.limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, q.limit, func(l models.ServiceLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	})
	return page, next, nil
}

func (r *repository) Save(ctx context.Context, log *models.ServiceLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
