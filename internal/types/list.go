package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList accepts either a JSON array of strings or a single
// comma-joined string, and always holds trimmed, non-empty entries.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*l = SplitList(joined)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	*l = clean(items)
	return nil
}

// SplitList splits a comma-joined string into a StringList.
func SplitList(s string) StringList {
	return clean(strings.Split(s, ","))
}

// FromForm normalizes values read from a form field: a single value is
// treated as comma-joined, several values are taken as they are.
func FromForm(values []string) StringList {
	if len(values) == 1 {
		return SplitList(values[0])
	}
	return clean(values)
}

func clean(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
