package enums

import "fmt"

type ScheduleEventStatus string

const (
	ScheduleEventStatusScheduled ScheduleEventStatus = "scheduled"
	ScheduleEventStatusCompleted ScheduleEventStatus = "completed"
	ScheduleEventStatusCancelled ScheduleEventStatus = "cancelled"
)

var validScheduleEventStatuss = []ScheduleEventStatus{
	ScheduleEventStatusScheduled,
	ScheduleEventStatusCompleted,
	ScheduleEventStatusCancelled,
}

// String implements fmt.Stringer.
func (s ScheduleEventStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScheduleEventStatus.
func (s ScheduleEventStatus) IsValid() bool {
	for _, candidate := range validScheduleEventStatuss {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScheduleEventStatus converts raw input into a ScheduleEventStatus.
func ParseScheduleEventStatus(value string) (ScheduleEventStatus, error) {
	for _, candidate := range validScheduleEventStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule event status %q", value)
}
