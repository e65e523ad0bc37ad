package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleID holds an identifier the backend may send either as a JSON
// number or a JSON string. Comparisons are always on the string form.
type FlexibleID string

func (id FlexibleID) String() string {
	return string(id)
}

func (id FlexibleID) IsZero() bool {
	return id == ""
}

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// MarshalJSON writes ids in canonical integer form as numbers and
// everything else, "007" or "+5" included, as strings.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
