package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductID accepts both numeric and string JSON ids. Numeric ids are
// written back as numbers so records stay compatible with the mock data.
type ProductID string

func (id ProductID) String() string { return string(id) }

func (id ProductID) MarshalJSON() ([]byte, error) {
	if isNumericID(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
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
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func isNumericID(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 63)
	return err == nil
}
