package permissions

import (
	"encoding/json"
	"fmt"
)

// Flag is a tri-state capability value. Unset is distinct from an explicit false.
type Flag uint8

const (
	FlagUnset Flag = iota
	FlagTrue
	FlagFalse
)

// FlagFromValue reads a stored value. Only a boolean counts as set; strings,
// numbers and nulls are unset.
func FlagFromValue(v any) Flag {
	b, ok := v.(bool)
	if !ok {
		return FlagUnset
	}
	return FlagFromBool(b)
}

// FlagFromBool converts a boolean into an explicit flag.
func FlagFromBool(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// FlagFromPtr maps nil to unset.
func FlagFromPtr(b *bool) Flag {
	if b == nil {
		return FlagUnset
	}
	return FlagFromBool(*b)
}

// IsSet reports whether the flag was explicitly written.
func (f Flag) IsSet() bool {
	return f == FlagTrue || f == FlagFalse
}

// Ptr returns the flag as an optional boolean.
func (f Flag) Ptr() *bool {
	switch f {
	case FlagTrue:
		v := true
		return &v
	case FlagFalse:
		v := false
		return &v
	default:
		return nil
	}
}

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

func (f Flag) MarshalJSON() ([]byte, error) {
	switch f {
	case FlagTrue:
		return []byte("true"), nil
	case FlagFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("flag must be true, false or null: %w", err)
	}
	*f = FlagFromPtr(v)
	return nil
}
