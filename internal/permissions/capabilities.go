package permissions

// Capability names one fine-grained permission.
type Capability string

const (
	CanViewCustomers     Capability = "can_view_customers"
	CanManageCustomers   Capability = "can_manage_customers"
	CanDeleteCustomers   Capability = "can_delete_customers"
	CanViewSchedule      Capability = "can_view_schedule"
	CanManageSchedule    Capability = "can_manage_schedule"
	CanDeleteSchedule    Capability = "can_delete_schedule"
	CanViewServiceLogs   Capability = "can_view_service_logs"
	CanManageServiceLogs Capability = "can_manage_service_logs"
	CanDeleteServiceLogs Capability = "can_delete_service_logs"
	CanViewInventory     Capability = "can_view_inventory"
	CanManageInventory   Capability = "can_manage_inventory"
	CanDeleteInventory   Capability = "can_delete_inventory"
	CanManageEmployees   Capability = "can_manage_employees"
	CanViewReports       Capability = "can_view_reports"
	CanExportData        Capability = "can_export_data"
)

var allCapabilities = []Capability{
	CanViewCustomers,
	CanManageCustomers,
	CanDeleteCustomers,
	CanViewSchedule,
	CanManageSchedule,
	CanDeleteSchedule,
	CanViewServiceLogs,
	CanManageServiceLogs,
	CanDeleteServiceLogs,
	CanViewInventory,
	CanManageInventory,
	CanDeleteInventory,
	CanManageEmployees,
	CanViewReports,
	CanExportData,
}

// Capabilities returns every capability in display order.
func Capabilities() []Capability {
	return append([]Capability(nil), allCapabilities...)
}

// IsValid reports whether c is a known capability.
func (c Capability) IsValid() bool {
	for _, candidate := range allCapabilities {
		if candidate == c {
			return true
		}
	}
	return false
}

// Set is a complete capability map. Every known capability is present.
type Set map[Capability]bool

// NewSet returns a set with every capability false.
func NewSet() Set {
	s := make(Set, len(allCapabilities))
	for _, c := range allCapabilities {
		s[c] = false
	}
	return s
}

// AllTrue returns a set with every capability granted.
func AllTrue() Set {
	s := make(Set, len(allCapabilities))
	for _, c := range allCapabilities {
		s[c] = true
	}
	return s
}

// Has reports whether the capability is granted.
func (s Set) Has(c Capability) bool {
	return s[c]
}

// Equal reports whether both sets grant the same capabilities.
func (s Set) Equal(other Set) bool {
	for _, c := range allCapabilities {
		if s[c] != other[c] {
			return false
		}
	}
	return true
}
