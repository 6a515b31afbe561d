package customers

import (
	"strings"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// CreateInput is the payload for a new customer.
type CreateInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Notes   *string `json:"notes"`
}

// ToModel converts the payload into a new active customer.
func (in CreateInput) ToModel(createdBy string) *models.Customer {
	return &models.Customer{
		Name:      strings.TrimSpace(in.Name),
		Company:   in.Company,
		Email:     lowerPtr(in.Email),
		Phone:     in.Phone,
		Address:   in.Address,
		Notes:     in.Notes,
		IsActive:  true,
		CreatedBy: createdBy,
	}
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Company  *string `json:"company" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"is_active"`
}

// Apply copies the set fields onto the customer.
func (in UpdateInput) Apply(c *models.Customer) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Company != nil {
		c.Company = in.Company
	}
	if in.Email != nil {
		c.Email = lowerPtr(in.Email)
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.Notes != nil {
		c.Notes = in.Notes
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

// ListParams filters the customer list.
type ListParams struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Cursor          string
}

// ListResult is one page of customers.
type ListResult struct {
	Items  []models.Customer `json:"items"`
	Cursor string            `json:"cursor"`
}

type listQuery struct {
	search          string
	includeInactive bool
	limit           int
	cursor          *pagination.Cursor
}

func lowerPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*v))
	return &s
}
