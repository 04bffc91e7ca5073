// Package wire holds lenient JSON types for backend payloads.
package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID decodes identifiers sent either as numbers or strings. null decodes
// to "".
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Int returns the numeric form, or 0 when the id is not an integer.
func (id ID) Int() int64 {
	v, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
