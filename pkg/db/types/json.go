package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap persists an arbitrary JSON object (jsonb on Postgres, text on SQLite).
type JSONMap map[string]any

func (m *JSONMap) Scan(src any) error {
	raw, err := jsonBytes("JSONMap", src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSONMap: decode: %w", err)
	}
	*m = out
	return nil
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("JSONMap: encode: %w", err)
	}
	return string(raw), nil
}

// FlagMap persists tri-state capability overrides. Missing keys are unset.
type FlagMap map[string]bool

func (m *FlagMap) Scan(src any) error {
	raw, err := jsonBytes("FlagMap", src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*m = FlagMap{}
		return nil
	}
	out := FlagMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("FlagMap: decode: %w", err)
	}
	*m = out
	return nil
}

func (m FlagMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]bool(m))
	if err != nil {
		return nil, fmt.Errorf("FlagMap: encode: %w", err)
	}
	return string(raw), nil
}

func jsonBytes(name string, src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported Scan type %T", name, src)
	}
}
