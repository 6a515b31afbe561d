package permissions

import (
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

// Access is the resolved access of the current caller, in the shape clients consume.
type Access struct {
	Email         string        `json:"email,omitempty"`
	IsAdmin       bool          `json:"is_admin"`
	IsSystemAdmin bool          `json:"is_system_admin"`
	IsAppAdmin    bool          `json:"is_app_admin"`
	IsManager     bool          `json:"is_manager"`
	UserRole      enums.AppRole `json:"user_role"`
	Permissions   Set           `json:"permissions"`
	Loading       bool          `json:"loading"`
}

// Anonymous is the zero-capability access of an unauthenticated caller.
func Anonymous() Access {
	return Access{Permissions: NewSet()}
}

// NewAccess assembles an Access from a role state and its capability set.
func NewAccess(email string, state RoleState, set Set) Access {
	if set == nil {
		set = NewSet()
	}
	return Access{
		Email:         email,
		IsAdmin:       state.IsAdmin,
		IsSystemAdmin: state.IsSystemAdmin,
		IsAppAdmin:    state.IsAppAdmin,
		IsManager:     state.IsManager,
		UserRole:      state.UserRole,
		Permissions:   set,
	}
}

// Can reports whether the caller holds the capability.
func (a Access) Can(c Capability) bool {
	return a.Permissions.Has(c)
}

// Authenticated reports whether the access belongs to a known caller.
func (a Access) Authenticated() bool {
	return a.Email != ""
}

// Require returns a forbidden error unless the caller holds the capability.
// Admins always pass.
func (a Access) Require(c Capability) error {
	if a.IsAdmin || a.Can(c) {
		return nil
	}
	return pkgerrors.MissingPermission(string(c))
}
