package permissions

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
)

// Repository persists role templates and permission assignments.
type Repository interface {
	FindTemplate(ctx context.Context, key string) (*models.RoleTemplate, error)
	UpsertTemplate(ctx context.Context, template *models.RoleTemplate) error
	FindAssignment(ctx context.Context, email string) (*models.PermissionAssignment, error)
	ListAssignments(ctx context.Context) ([]models.PermissionAssignment, error)
	EnsureAssignment(ctx context.Context, assignment *models.PermissionAssignment) (*models.PermissionAssignment, error)
	UpdateAssignment(ctx context.Context, assignment *models.PermissionAssignment) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

// FindTemplate returns nil, nil when the template was never created.
func (r *repository) FindTemplate(ctx context.Context, key string) (*models.RoleTemplate, error) {
	var row models.RoleTemplate
	err := r.db.WithContext(ctx).Where("template_key = ?", key).First(&row).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertTemplate inserts the template or updates the existing row for its key
// in place, so the row id never changes.
func (r *repository) UpsertTemplate(ctx context.Context, template *models.RoleTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_by", "updated_at"}),
		}).
		Create(template).Error
}

// FindAssignment returns nil, nil when the email has no assignment.
func (r *repository) FindAssignment(ctx context.Context, email string) (*models.PermissionAssignment, error) {
	var row models.PermissionAssignment
	err := r.db.WithContext(ctx).Where("user_email = ?", email).First(&row).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListAssignments(ctx context.Context) ([]models.PermissionAssignment, error) {
	var rows []models.PermissionAssignment
	if err := r.db.WithContext(ctx).Order("user_email ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// EnsureAssignment returns the existing assignment for the email or creates
// the provided one.
func (r *repository) EnsureAssignment(ctx context.Context, assignment *models.PermissionAssignment) (*models.PermissionAssignment, error) {
	var row models.PermissionAssignment
	err := r.db.WithContext(ctx).
		Where(models.PermissionAssignment{UserEmail: assignment.UserEmail}).
		Attrs(models.PermissionAssignment{Role: assignment.Role, Overrides: assignment.Overrides, UpdatedBy: assignment.UpdatedBy}).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateAssignment(ctx context.Context, assignment *models.PermissionAssignment) error {
	return r.db.WithContext(ctx).
		Model(&models.PermissionAssignment{}).
		Where("id = ?", assignment.ID).
		Updates(map[string]any{
			"role":       assignment.Role,
			"overrides":  assignment.Overrides,
			"updated_by": assignment.UpdatedBy,
			"updated_at": time.Now().UTC(),
		}).Error
}
