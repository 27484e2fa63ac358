package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Column names used by the backend table.
const (
	FieldTitle  = "Title"
	FieldIsDone = "IsDone"
)

// ID is an opaque record identifier. It holds the raw JSON token the
// backend sent (a number like 7 or a quoted string like "rec1") so it
// is echoed back exactly as received.
type ID string

// ParseID turns user input into an ID. Integers stay numeric in their
// canonical form (007 and +7 become 7), anything else becomes a JSON string.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(n, 10))
	}
	b, _ := json.Marshal(s)
	return ID(b)
}

func (id ID) String() string {
	var s string
	if err := json.Unmarshal([]byte(id), &s); err == nil {
		return s
	}
	return string(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*id = ID(buf.String())
	return nil
}

// Item is one shopping-list record. Tags live inside Title and are
// derived on demand. Fields carries any other columns of the record.
type Item struct {
	ID     ID             `json:"Id"`
	Title  string         `json:"Title"`
	IsDone bool           `json:"IsDone"`
	Fields map[string]any `json:"-"`
}
