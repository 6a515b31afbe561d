package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Repository persists customers.
type Repository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, query listQuery) ([]models.Customer, *pagination.Cursor, error)
	Save(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, q listQuery) ([]models.Customer, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if !q.includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if s := strings.ToLower(strings.TrimSpace(q.search)); s != "" {
		like := "%" + s + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(company, '')) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?", like, like, like)
	}
	var rows []models.Customer
	if err := query.Scopes(pagination.Newest(q.cursor)).Limit(pagination.LimitWithBuffer(q.limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, q.limit, func(c models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return page, next, nil
}

func (r *repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
