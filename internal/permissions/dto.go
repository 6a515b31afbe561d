package permissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// TemplateInput replaces every role's flags. A nil or missing flag is unset.
type TemplateInput struct {
	Roles map[enums.AppRole]map[Capability]*bool `json:"roles" validate:"required"`
}

// TemplateView is the administration view of the role template.
type TemplateView struct {
	Exists    bool                  `json:"exists"`
	Template  *RoleTemplate         `json:"template"`
	Effective map[enums.AppRole]Set `json:"effective"`
}

// AssignmentInput changes a user's role and override flags. Nil fields are left as is;
// a nil override value clears that override.
type AssignmentInput struct {
	Role      *enums.AppRole       `json:"role" validate:"omitempty,enum"`
	Overrides map[Capability]*bool `json:"overrides"`
}

// AssignmentView is a permission assignment together with the capabilities it resolves to.
type AssignmentView struct {
	ID        uuid.UUID           `json:"id"`
	Email     string              `json:"email"`
	Role      enums.AppRole       `json:"role"`
	Overrides map[Capability]bool `json:"overrides"`
	Effective Set                 `json:"effective"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func assignmentSnapshot(a *models.PermissionAssignment) map[string]any {
	out := map[string]any{"role": string(a.Role)}
	for _, c := range allCapabilities {
		if v, ok := a.Overrides[string(c)]; ok {
			out["override_"+string(c)] = v
		} else {
			out["override_"+string(c)] = nil
		}
	}
	return out
}

func templateSnapshot(t *RoleTemplate) map[string]any {
	out := map[string]any{}
	for _, role := range enums.AppRoles() {
		for _, c := range allCapabilities {
			key := TemplateField(role, c)
			if p := t.Flag(role, c).Ptr(); p != nil {
				out[key] = *p
			} else {
				out[key] = nil
			}
		}
	}
	return out
}
