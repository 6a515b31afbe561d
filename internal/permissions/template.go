package permissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// RoleFlags holds the tri-state defaults for a single role.
type RoleFlags map[Capability]Flag

// RoleTemplate is the typed form of the role template record.
type RoleTemplate struct {
	ID        uuid.UUID                   `json:"id"`
	Roles     map[enums.AppRole]RoleFlags `json:"roles"`
	UpdatedBy string                      `json:"updated_by,omitempty"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// NewRoleTemplate returns a template with every flag unset.
func NewRoleTemplate() *RoleTemplate {
	roles := make(map[enums.AppRole]RoleFlags, 3)
	for _, role := range enums.AppRoles() {
		roles[role] = RoleFlags{}
	}
	return &RoleTemplate{Roles: roles}
}

// TemplateField returns the stored key for a role capability, such as manager_can_view_reports.
func TemplateField(role enums.AppRole, c Capability) string {
	return string(role) + "_" + string(c)
}

// Flag returns the stored flag for role and capability. Missing entries are unset.
func (t *RoleTemplate) Flag(role enums.AppRole, c Capability) Flag {
	if t == nil {
		return FlagUnset
	}
	flags, ok := t.Roles[role]
	if !ok {
		return FlagUnset
	}
	return flags[c]
}

// SetFlag writes a flag, creating the role entry when needed.
func (t *RoleTemplate) SetFlag(role enums.AppRole, c Capability, f Flag) {
	if t.Roles == nil {
		t.Roles = map[enums.AppRole]RoleFlags{}
	}
	flags, ok := t.Roles[role]
	if !ok {
		flags = RoleFlags{}
		t.Roles[role] = flags
	}
	if f.IsSet() {
		flags[c] = f
		return
	}
	delete(flags, c)
}

// Fields flattens the template into role-prefixed keys. Unset flags are omitted.
func (t *RoleTemplate) Fields() dbtypes.JSONMap {
	out := dbtypes.JSONMap{}
	if t == nil {
		return out
	}
	for _, role := range enums.AppRoles() {
		for _, c := range allCapabilities {
			switch t.Flag(role, c) {
			case FlagTrue:
				out[TemplateField(role, c)] = true
			case FlagFalse:
				out[TemplateField(role, c)] = false
			}
		}
	}
	return out
}

// TemplateFromModel parses the stored record. Values that are not booleans
// are treated as unset.
func TemplateFromModel(m *models.RoleTemplate) *RoleTemplate {
	if m == nil {
		return nil
	}
	t := NewRoleTemplate()
	t.ID = m.ID
	t.UpdatedAt = m.UpdatedAt
	if m.UpdatedBy != nil {
		t.UpdatedBy = *m.UpdatedBy
	}
	for _, role := range enums.AppRoles() {
		for _, c := range allCapabilities {
			t.SetFlag(role, c, FlagFromValue(m.Fields[TemplateField(role, c)]))
		}
	}
	return t
}
