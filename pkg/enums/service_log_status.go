package enums

import "fmt"

// ServiceLogStatus tracks the lifecycle of a service ticket.
type ServiceLogStatus string

const (
	ServiceLogStatusOpen       ServiceLogStatus = "open"
	ServiceLogStatusInProgress ServiceLogStatus = "in_progress"
	ServiceLogStatusCompleted  ServiceLogStatus = "completed"
	ServiceLogStatusCancelled  ServiceLogStatus = "cancelled"
)

var validServiceLogStatuss = []ServiceLogStatus{
	ServiceLogStatusOpen,
	ServiceLogStatusInProgress,
	ServiceLogStatusCompleted,
	ServiceLogStatusCancelled,
}

// String implements fmt.Stringer.
func (s ServiceLogStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceLogStatus.
func (s ServiceLogStatus) IsValid() bool {
	for _, candidate := range validServiceLogStatuss {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceLogStatus converts raw input into a ServiceLogStatus.
func ParseServiceLogStatus(value string) (ServiceLogStatus, error) {
	for _, candidate := range validServiceLogStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service log status %q", value)
}
