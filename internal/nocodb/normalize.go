package nocodb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Makepad-fr/shoplist/internal/model"
)

// recordsOf pulls the record array out of a list response. The backend
// answers with {list}, {data}, {records} or a bare array depending on
// the API version; anything else is treated as empty.
func recordsOf(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	for _, key := range []string{"list", "data", "records"} {
		v, ok := env[key]
		if !ok {
			continue
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil && arr != nil {
			return arr, nil
		}
	}
	return nil, nil
}

// Normalize flattens one record. The nested shape {id, fields: {...}}
// and the flat shape {Id, Title, IsDone, ...} of the same row produce
// identical items.
func Normalize(raw json.RawMessage) (model.Item, error) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Item{}, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return model.Item{}, fmt.Errorf("decode record: not an object")
	}

	cols := rec
	idKeys := []string{"Id", "id"}
	if nested, ok := rec["fields"]; ok && isObject(nested) {
		cols = nil
		if err := json.Unmarshal(nested, &cols); err != nil {
			return model.Item{}, fmt.Errorf("decode fields: %w", err)
		}
		idKeys = []string{"id", "Id"}
	}

	var it model.Item
	for _, k := range idKeys {
		if v, ok := rec[k]; ok {
			if err := it.ID.UnmarshalJSON(v); err != nil {
				return model.Item{}, fmt.Errorf("decode id: %w", err)
			}
			break
		}
	}
	if v, ok := cols[model.FieldTitle]; ok {
		it.Title = text(v)
	}
	if v, ok := cols[model.FieldIsDone]; ok {
		it.IsDone = truthy(v)
	}

	for k, v := range cols {
		switch k {
		case "Id", "id", model.FieldTitle, model.FieldIsDone:
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			continue
		}
		if it.Fields == nil {
			it.Fields = make(map[string]any)
		}
		it.Fields[k] = val
	}
	return it, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// text reads a column as display text. Numbers and booleans keep their
// literal form; null, objects and arrays read as empty.
func text(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64, bool:
		return string(bytes.TrimSpace(raw))
	}
	return ""
}

// truthy accepts booleans and the 0/1 some databases use for checkboxes.
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x == "true" || x == "1"
	}
	return false
}
