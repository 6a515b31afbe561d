package audit

import (
	"encoding/json"
	"fmt"
)

// Change is the before and after value of one field.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Changes maps field names to their change.
type Changes map[string]Change

// ComputeChanges returns the fields of next whose normalized value differs
// from previous. Booleans compare by identity; everything else compares as a
// string with nil treated as "", so nil and "" are equal and 1 equals "1".
// Fields present only in previous are ignored.
func ComputeChanges(previous, next map[string]any) Changes {
	out := Changes{}
	for field, to := range next {
		from := previous[field]
		if equivalent(from, to) {
			continue
		}
		out[field] = Change{From: from, To: to}
	}
	return out
}

// CreateChanges records every non-empty field of a new entity.
func CreateChanges(snapshot map[string]any) Changes {
	return ComputeChanges(nil, snapshot)
}

// DeleteChanges records every non-empty field of a removed entity.
func DeleteChanges(snapshot map[string]any) Changes {
	cleared := make(map[string]any, len(snapshot))
	for field := range snapshot {
		cleared[field] = nil
	}
	return ComputeChanges(snapshot, cleared)
}

func equivalent(a, b any) bool {
	_, aBool := a.(bool)
	_, bBool := b.(bool)
	if aBool || bBool {
		return a == b
	}
	return normalize(a) == normalize(b)
}

func normalize(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Snapshot flattens a value into a field map using its JSON representation.
func Snapshot(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return out, nil
}

// Fields converts the changes into a JSON column value.
func (c Changes) Fields() map[string]any {
	out := make(map[string]any, len(c))
	for field, change := range c {
		out[field] = map[string]any{"from": change.From, "to": change.To}
	}
	return out
}
