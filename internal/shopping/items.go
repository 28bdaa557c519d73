package shopping

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Items is a list of shopping items stored as a JSON document column.
type Items []Item

// Value implements the driver.Valuer interface
func (it Items) Value() (driver.Value, error) {
	if len(it) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (it *Items) Scan(value interface{}) error {
	if value == nil {
		*it = Items{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for shopping items: %T", value)
	}

	return json.Unmarshal(bytes, it)
}
