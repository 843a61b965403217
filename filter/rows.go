package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Row is one entry of a list result
type Row map[string]any

// ID returns the row's "id" field as a string, if any
func (r Row) ID() string {
	return toString(r["id"])
}

// Rows extracts list rows from a call payload. getList answers nest rows under
// "result", either as an array or as an object keyed by id; other payloads are
// treated as a list or a single row.
func Rows(payload json.RawMessage) ([]Row, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	if obj, ok := decoded.(map[string]any); ok {
		if inner, ok := obj["result"]; ok {
			decoded = inner
		}
	}

	switch v := decoded.(type) {
	case []any:
		rows := make([]Row, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, Row(m))
			}
		}
		return rows, nil
	case map[string]any:
		if keyed := keyedRows(v); keyed != nil {
			return keyed, nil
		}
		return []Row{Row(v)}, nil
	default:
		return nil, nil
	}
}

// keyedRows returns the values of an id-keyed object ordered by key, or nil
// when some value is not an object.
func keyedRows(obj map[string]any) []Row {
	if len(obj) == 0 {
		return []Row{}
	}

	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		if _, ok := v.(map[string]any); !ok {
			return nil
		}
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Row(obj[k].(map[string]any)))
	}
	return rows
}
