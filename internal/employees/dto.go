package employees

import (
	"time"

	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// InviteInput creates an employee profile and its permission assignment.
type InviteInput struct {
	Email      string        `json:"email" validate:"required,email"`
	FirstName  string        `json:"first_name" validate:"required,max=100"`
	LastName   string        `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string       `json:"phone" validate:"omitempty,max=40"`
	Department *string       `json:"department" validate:"omitempty,max=100"`
	Title      *string       `json:"title" validate:"omitempty,max=100"`
	HireDate   *time.Time    `json:"hire_date"`
	Role       enums.AppRole `json:"role" validate:"required,enum"`
}

// InviteResult is the created employee with the capabilities its role grants.
type InviteResult struct {
	Employee    EmployeeView    `json:"employee"`
	Permissions permissions.Set `json:"permissions"`
	EmailSent   bool            `json:"email_sent"`
}

// EmployeeView is a profile together with its application role.
type EmployeeView struct {
	models.User
	FullName string        `json:"full_name"`
	Role     enums.AppRole `json:"role"`
}

func newEmployeeView(u models.User, role enums.AppRole) EmployeeView {
	return EmployeeView{User: u, FullName: u.FullName(), Role: role}
}
