package model

import (
	"fmt"
	"slices"
)

// Table is the canonical per-day table: an ordered set of named columns, each
// holding exactly Len() cells. Cells keep whatever the ingestion layer put there
// (text, numbers, dates, nil); numeric reads go through ToFloat.
//
// A Table is not safe for concurrent mutation. The carbon calculators never
// mutate their input; they work on a Clone.
type Table struct {
	columns []string
	data    map[string][]any
	rows    int
}

// NewTable returns an empty table with a fixed row count.
func NewTable(rows int) *Table {
	if rows < 0 {
		rows = 0
	}
	return &Table{
		data: make(map[string][]any),
		rows: rows,
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.columns)
}

func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.data[name]
	return ok
}

// Missing returns every requested name that is not a column, in request order.
func (t *Table) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !t.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Set adds or replaces a column. values must have exactly Len() cells.
func (t *Table) Set(name string, values []any) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(values), t.rows)
	}
	if t.data == nil {
		t.data = make(map[string][]any)
	}
	if _, exists := t.data[name]; !exists {
		t.columns = append(t.columns, name)
	}
	t.data[name] = values
	return nil
}

// SetFloats is Set for a computed numeric column.
func (t *Table) SetFloats(name string, values []float64) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return t.Set(name, cells)
}

// Value returns the raw cell, or nil when the column or row does not exist.
func (t *Table) Value(name string, row int) any {
	if t == nil {
		return nil
	}
	col, ok := t.data[name]
	if !ok || row < 0 || row >= len(col) {
		return nil
	}
	return col[row]
}

// Float returns the zero-filled numeric value of a cell.
func (t *Table) Float(name string, row int) float64 {
	f, _ := ToFloat(t.Value(name, row))
	return f
}

// Floats returns the zero-filled numeric view of a whole column. An absent
// column reads as all zeros.
func (t *Table) Floats(name string) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Float(name, i)
	}
	return out
}

// Sum adds up the zero-filled numeric view of a column.
func (t *Table) Sum(name string) float64 {
	s := 0.0
	for i := 0; i < t.Len(); i++ {
		s += t.Float(name, i)
	}
	return s
}

// Clone deep-copies the column slices. Cell values themselves are immutable
// (strings, numbers, time.Time) so they are shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		columns: slices.Clone(t.columns),
		data:    make(map[string][]any, len(t.data)),
		rows:    t.rows,
	}
	for k, v := range t.data {
		out.data[k] = slices.Clone(v)
	}
	return out
}

// SelectRows returns a new table holding the given rows, in the given order.
func (t *Table) SelectRows(idx []int) *Table {
	out := NewTable(len(idx))
	for _, name := range t.columns {
		src := t.data[name]
		cells := make([]any, len(idx))
		for i, r := range idx {
			cells[i] = src[r]
		}
		_ = out.Set(name, cells)
	}
	return out
}

// Rows returns one map per row keyed by column name.
func (t *Table) Rows() []map[string]any {
	out := make([]map[string]any, t.Len())
	for i := range out {
		row := make(map[string]any, len(t.columns))
		for _, name := range t.columns {
			row[name] = t.data[name][i]
		}
		out[i] = row
	}
	return out
}

// Without returns a copy of the table minus the named columns.
func (t *Table) Without(names ...string) *Table {
	out := t.Clone()
	for _, n := range names {
		if _, ok := out.data[n]; !ok {
			continue
		}
		delete(out.data, n)
		out.columns = slices.DeleteFunc(out.columns, func(c string) bool { return c == n })
	}
	return out
}

// CheckShape verifies that every column has exactly Len() cells.
func (t *Table) CheckShape() error {
	if t == nil {
		return fmt.Errorf("table is nil")
	}
	for _, name := range t.columns {
		if n := len(t.data[name]); n != t.rows {
			return fmt.Errorf("column %q has %d cells, table has %d rows", name, n, t.rows)
		}
	}
	return nil
}

// NumericIssue records a present, non-blank cell that failed numeric coercion
// and was read as zero.
type NumericIssue struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Raw   string `json:"raw"`
}

// NumericIssues audits the given columns for cells that will be zero-filled
// because they are present but unparsable. Blank cells are ordinary missing
// values and are not reported. Absent columns are skipped.
func (t *Table) NumericIssues(fields ...string) []NumericIssue {
	var out []NumericIssue
	for _, f := range fields {
		if !t.Has(f) {
			continue
		}
		for i, v := range t.data[f] {
			if isBlank(v) {
				continue
			}
			if _, ok := ToFloat(v); !ok {
				out = append(out, NumericIssue{Row: i, Field: f, Raw: fmt.Sprint(v)})
			}
		}
	}
	return out
}
