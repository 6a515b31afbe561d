package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// User mirrors an identity-provider account as an employee profile.
// Email is the identity key and never changes.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string           `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FirstName    string           `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string           `gorm:"column:last_name;not null" json:"last_name"`
	Phone        *string          `gorm:"column:phone" json:"phone"`
	Department   *string          `gorm:"column:department" json:"department"`
	Title        *string          `gorm:"column:title" json:"title"`
	HireDate     *time.Time       `gorm:"column:hire_date" json:"hire_date"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:active" json:"status"`
	PlatformRole *string          `gorm:"column:platform_role" json:"platform_role"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// FullName joins the first and last names, skipping empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
