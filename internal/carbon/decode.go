package carbon

import (
	"fmt"
	"slices"

	"wwtp-carbon/internal/model"
)

// FromRows builds a table from decoded JSON: an array of objects keyed by
// field name. Columns are the union of keys across rows (first-seen order,
// keys sorted within a row); a key a row lacks reads as a blank cell.
// Anything that is not an array of objects is an InvalidShapeError.
func FromRows(v any) (*model.Table, error) {
	var rows []map[string]any
	switch x := v.(type) {
	case []map[string]any:
		rows = x
	case []any:
		rows = make([]map[string]any, len(x))
		for i, r := range x {
			obj, ok := r.(map[string]any)
			if !ok {
				return nil, &InvalidShapeError{Reason: fmt.Sprintf("row %d is %T, want an object", i, r)}
			}
			rows[i] = obj
		}
	case nil:
		return nil, &InvalidShapeError{Reason: "input is null"}
	default:
		return nil, &InvalidShapeError{Reason: fmt.Sprintf("input is %T, want an array of objects", v)}
	}

	var cols []string
	seen := map[string]bool{}
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}

	t := model.NewTable(len(rows))
	for _, c := range cols {
		cells := make([]any, len(rows))
		for i, r := range rows {
			cells[i] = r[c]
		}
		if err := t.Set(c, cells); err != nil {
			return nil, &InvalidShapeError{Reason: err.Error()}
		}
	}
	return t, nil
}
