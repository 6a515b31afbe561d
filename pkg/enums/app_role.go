package enums

import "fmt"

// AppRole is the application-level role stored on a permission assignment.
type AppRole string

const (
	AppRoleAdmin    AppRole = "admin"
	AppRoleManager  AppRole = "manager"
	AppRoleEmployee AppRole = "employee"
)

var validAppRoles = []AppRole{
	AppRoleAdmin,
	AppRoleManager,
	AppRoleEmployee,
}

// String implements fmt.Stringer.
func (a AppRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppRole.
func (a AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppRole converts raw input into an AppRole.
func ParseAppRole(value string) (AppRole, error) {
	for _, candidate := range validAppRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}

// PlatformRoleAdmin is the identity-provider role literal that marks a system administrator.
// Any other platform role value means non-admin.
const PlatformRoleAdmin = "admin"

// AppRoles returns the known roles in display order.
func AppRoles() []AppRole {
	return append([]AppRole(nil), validAppRoles...)
}
