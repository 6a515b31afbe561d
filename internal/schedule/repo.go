package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// Repository persists schedule events.
type Repository interface {
	Create(ctx context.Context, event *models.ScheduleEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ScheduleEvent, error)
	List(ctx context.Context, query listQuery) ([]models.ScheduleEvent, error)
	Save(ctx context.Context, event *models.ScheduleEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a schedule repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listQuery struct {
	from       *time.Time
	to         *time.Time
	assignedTo string
	status     enums.ScheduleEventStatus
	limit      int
}

func (r *repository) Create(ctx context.Context, event *models.ScheduleEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ScheduleEvent, error) {
	var event models.ScheduleEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.ScheduleEvent, error) {
	query := r.db.WithContext(ctx).Model(&models.ScheduleEvent{})
	if q.from != nil {
		query = query.Where("starts_at >= ?", *q.from)
	}
	if q.to != nil {
		query = query.Where("starts_at < ?", *q.to)
	}
	if q.assignedTo != "" {
		query = query.Where("assigned_to = ?", q.assignedTo)
	}
	if q.status != "" {
		query = query.Where("status = ?", q.status)
	}

	var rows []models.ScheduleEvent
	if err := query.Order("starts_at ASC, id ASC").Limit(q.limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, event *models.ScheduleEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ScheduleEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
