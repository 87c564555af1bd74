package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex is a scalar the server may send as a JSON string, number, boolean or
// null. Non-string values are kept verbatim so malformed fields pass through
// instead of failing the whole decode.
type Flex string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	*f = Flex(data)
	return nil
}

// MarshalJSON renders numeric values as numbers and everything else as a string.
func (f Flex) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if _, ok := f.Float(); ok && json.Valid([]byte(f)) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// String returns the raw value.
func (f Flex) String() string { return string(f) }

// Float parses the value as a number.
func (f Flex) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses the value as an integer.
func (f Flex) Int() (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0, false
	}
	return v, true
}
