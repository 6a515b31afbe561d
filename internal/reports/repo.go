package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// Repository runs the read-only aggregate queries behind reports.
type Repository interface {
	Counts(ctx context.Context, now time.Time) (*Counts, error)
	LowStock(ctx context.Context, limit int) ([]models.InventoryItem, error)
	OpenServiceLogs(ctx context.Context, limit int) ([]models.ServiceLog, error)
	Customers(ctx context.Context, limit int) ([]models.Customer, error)
	Inventory(ctx context.Context, limit int) ([]models.InventoryItem, error)
	ServiceLogs(ctx context.Context, limit int) ([]models.ServiceLog, error)
	ScheduleEvents(ctx context.Context, limit int) ([]models.ScheduleEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var openStatuses = []enums.ServiceLogStatus{enums.ServiceLogStatusOpen, enums.ServiceLogStatusInProgress}

type statusCount struct {
	Status enums.ServiceLogStatus
	Count  int64
}

func (r *repository) Counts(ctx context.Context, now time.Time) (*Counts, error) {
	conn := r.db.WithContext(ctx)
	out := &Counts{ServiceLogsByStatus: map[enums.ServiceLogStatus]int64{}}

	if err := conn.Model(&models.Customer{}).Count(&out.Customers).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.Customer{}).Where("is_active = ?", true).Count(&out.ActiveCustomers).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.InventoryItem{}).Where("is_active = ?", true).Count(&out.InventoryItems).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.InventoryItem{}).Where("is_active = ? AND quantity <= reorder_level", true).Count(&out.LowStockItems).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.User{}).Where("status = ?", enums.UserStatusActive).Count(&out.ActiveEmployees).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.ScheduleEvent{}).
		Where("status = ? AND starts_at >= ? AND starts_at < ?", enums.ScheduleEventStatusScheduled, now, now.AddDate(0, 0, 7)).
		Count(&out.UpcomingEvents).Error; err != nil {
		return nil, err
	}

	var rows []statusCount
	if err := conn.Model(&models.ServiceLog{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out.ServiceLogsByStatus[row.Status] = row.Count
		out.ServiceLogs += row.Count
	}
	return out, nil
}

func (r *repository) LowStock(ctx context.Context, limit int) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND quantity <= reorder_level", true).
		Order("quantity - reorder_level ASC, name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) OpenServiceLogs(ctx context.Context, limit int) ([]models.ServiceLog, error) {
	var rows []models.ServiceLog
	err := r.db.WithContext(ctx).
		Where("status IN ?", openStatuses).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Customers(ctx context.Context, limit int) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) Inventory(ctx context.Context, limit int) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) ServiceLogs(ctx context.Context, limit int) ([]models.ServiceLog, error) {
	var rows []models.ServiceLog
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) ScheduleEvents(ctx context.Context, limit int) ([]models.ScheduleEvent, error) {
	var rows []models.ScheduleEvent
	err := r.db.WithContext(ctx).Order("starts_at ASC, id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}
