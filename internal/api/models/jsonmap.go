package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap is a free-form metadata bag persisted as a jsonb column.
// Consumers must treat every key as optional.
type JSONMap map[string]any

// Value implements driver.Valuer so GORM can write the map as jsonb.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading jsonb back into the map.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}
