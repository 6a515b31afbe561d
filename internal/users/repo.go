package users

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
)

// Repository exposes user profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", auth.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns profiles ordered by name then email.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	var rows []models.User
	if err := query.Order("first_name ASC, last_name ASC, email ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists every column of an existing user.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SyncIdentity mirrors the identity provider account into a profile. Names are
// only filled when empty; the platform role always follows the provider.
func (r *Repository) SyncIdentity(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	user, err := r.FindByEmail(ctx, identity.Email)
	if err != nil && !db.IsNotFound(err) {
		return nil, err
	}

	var role *string
	if identity.PlatformRole != "" {
		v := identity.PlatformRole
		role = &v
	}

	if user == nil {
		return r.Create(ctx, CreateUserDTO{
			Email:        identity.Email,
			FirstName:    identity.FirstName,
			LastName:     identity.LastName,
			PlatformRole: role,
		})
	}

	updates := map[string]any{"platform_role": role}
	if user.FirstName == "" && identity.FirstName != "" {
		updates["first_name"] = identity.FirstName
		user.FirstName = identity.FirstName
	}
	if user.LastName == "" && identity.LastName != "" {
		updates["last_name"] = identity.LastName
		user.LastName = identity.LastName
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.PlatformRole = role
	return user, nil
}
