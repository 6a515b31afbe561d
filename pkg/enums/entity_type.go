package enums

import "fmt"

// EntityType identifies the audited resource.
type EntityType string

const (
	EntityTypeCustomer             EntityType = "customer"
	EntityTypeScheduleEvent        EntityType = "schedule_event"
	EntityTypeServiceLog           EntityType = "service_log"
	EntityTypeInventoryItem        EntityType = "inventory_item"
	EntityTypeUser                 EntityType = "user"
	EntityTypePermissionAssignment EntityType = "permission_assignment"
	EntityTypeRoleTemplate         EntityType = "role_template"
)

var validEntityTypes = []EntityType{
	EntityTypeCustomer,
	EntityTypeScheduleEvent,
	EntityTypeServiceLog,
	EntityTypeInventoryItem,
	EntityTypeUser,
	EntityTypePermissionAssignment,
	EntityTypeRoleTemplate,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntityType.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
