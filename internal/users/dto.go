package users

import (
	"strings"
	"time"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// CreateUserDTO holds the data required by the repo to persist a new profile.
type CreateUserDTO struct {
	Email        string
	FirstName    string
	LastName     string
	Phone        *string
	Department   *string
	Title        *string
	HireDate     *time.Time
	Status       enums.UserStatus
	PlatformRole *string
}

// UpdateProfileDTO carries editable profile fields. Nil fields are left unchanged.
type UpdateProfileDTO struct {
	FirstName  *string           `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string           `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string           `json:"phone" validate:"omitempty,max=40"`
	Department *string           `json:"department" validate:"omitempty,max=100"`
	Title      *string           `json:"title" validate:"omitempty,max=100"`
	HireDate   *time.Time        `json:"hire_date"`
	Status     *enums.UserStatus `json:"status" validate:"omitempty,enum"`
}

// ListFilter narrows profile listings.
type ListFilter struct {
	Status enums.UserStatus
	Search string
}

func (c CreateUserDTO) ToModel() *models.User {
	status := c.Status
	if status == "" {
		status = enums.UserStatusActive
	}
	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName:    strings.TrimSpace(c.FirstName),
		LastName:     strings.TrimSpace(c.LastName),
		Phone:        c.Phone,
		Department:   c.Department,
		Title:        c.Title,
		HireDate:     c.HireDate,
		Status:       status,
		PlatformRole: c.PlatformRole,
	}
}

// Apply copies the set fields onto the user.
func (u UpdateProfileDTO) Apply(user *models.User) {
	if u.FirstName != nil {
		user.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		user.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Phone != nil {
		user.Phone = u.Phone
	}
	if u.Department != nil {
		user.Department = u.Department
	}
	if u.Title != nil {
		user.Title = u.Title
	}
	if u.HireDate != nil {
		user.HireDate = u.HireDate
	}
	if u.Status != nil {
		user.Status = *u.Status
	}
}
