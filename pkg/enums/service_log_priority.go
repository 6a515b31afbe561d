package enums

import "fmt"

// ServiceLogPriority orders service tickets in the work queue.
type ServiceLogPriority string

const (
	ServiceLogPriorityLow    ServiceLogPriority = "low"
	ServiceLogPriorityNormal ServiceLogPriority = "normal"
	ServiceLogPriorityHigh   ServiceLogPriority = "high"
	ServiceLogPriorityUrgent ServiceLogPriority = "urgent"
)

var validServiceLogPrioritys = []ServiceLogPriority{
	ServiceLogPriorityLow,
	ServiceLogPriorityNormal,
	ServiceLogPriorityHigh,
	ServiceLogPriorityUrgent,
}

// String implements fmt.Stringer.
func (s ServiceLogPriority) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceLogPriority.
func (s ServiceLogPriority) IsValid() bool {
	for _, candidate := range validServiceLogPrioritys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceLogPriority converts raw input into a ServiceLogPriority.
func ParseServiceLogPriority(value string) (ServiceLogPriority, error) {
	for _, candidate := range validServiceLogPrioritys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service log priority %q", value)
}
