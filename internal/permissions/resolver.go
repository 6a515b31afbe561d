package permissions

import (
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// RoleState is the resolved role of a user.
type RoleState struct {
	IsSystemAdmin bool
	IsAppAdmin    bool
	IsAdmin       bool
	IsManager     bool
	UserRole      enums.AppRole
}

// ResolveRole combines the identity provider role with the optional assignment.
// A nil identity yields the zero state.
func ResolveRole(identity *auth.Identity, assignment *models.PermissionAssignment) RoleState {
	if identity == nil {
		return RoleState{}
	}

	state := RoleState{IsSystemAdmin: identity.IsPlatformAdmin()}
	if assignment != nil {
		state.IsAppAdmin = assignment.Role == enums.AppRoleAdmin
		state.IsManager = assignment.Role == enums.AppRoleManager
	}
	state.IsAdmin = state.IsSystemAdmin || state.IsAppAdmin

	switch {
	case assignment != nil:
		state.UserRole = assignment.Role
	case state.IsSystemAdmin:
		state.UserRole = enums.AppRoleAdmin
	default:
		state.UserRole = enums.AppRoleEmployee
	}
	return state
}

// ResolveEffectivePermissions computes the capability set for a role.
//
// Admins get every capability and the template is ignored. Otherwise a present
// template is authoritative: a capability is granted only when its
// role-prefixed flag is explicitly true. The fallback table applies only when
// no template exists at all.
func ResolveEffectivePermissions(role enums.AppRole, isAdmin bool, template *RoleTemplate) Set {
	if isAdmin {
		return AllTrue()
	}
	if template == nil {
		return FallbackPermissions(role)
	}
	out := NewSet()
	for _, c := range allCapabilities {
		out[c] = template.Flag(role, c) == FlagTrue
	}
	return out
}

// FallbackPermissions is the bootstrap table used before any template is saved.
// Unknown roles get nothing.
func FallbackPermissions(role enums.AppRole) Set {
	switch role {
	case enums.AppRoleAdmin:
		return AllTrue()
	case enums.AppRoleManager:
		out := AllTrue()
		out[CanManageEmployees] = false
		return out
	case enums.AppRoleEmployee:
		out := NewSet()
		for _, c := range []Capability{
			CanViewCustomers, CanManageCustomers,
			CanViewSchedule, CanManageSchedule,
			CanViewServiceLogs, CanManageServiceLogs,
		} {
			out[c] = true
		}
		return out
	default:
		return NewSet()
	}
}
