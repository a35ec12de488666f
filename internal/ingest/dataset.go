package ingest

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/model"
)

// MonthLayout formats month keys.
const MonthLayout = "2006-01"

// Dataset is a normalized upload: every valid row sorted by date, plus the
// calendar months it covers.
type Dataset struct {
	Table    *model.Table
	Months   []string
	Warnings []string

	monthRows map[string][]int
}

// Month returns the rows of one month as a new table, or nil if the dataset
// has no such month.
func (d *Dataset) Month(key string) *model.Table {
	if d == nil {
		return nil
	}
	idx, ok := d.monthRows[key]
	if !ok {
		return nil
	}
	return d.Table.SelectRows(idx)
}

// LatestMonth is the default selection.
func (d *Dataset) LatestMonth() string {
	if d == nil || len(d.Months) == 0 {
		return ""
	}
	return d.Months[len(d.Months)-1]
}

func (d *Dataset) HasMonth(key string) bool {
	_, ok := d.monthRows[key]
	return ok
}

// Span returns the first and last dates in the dataset.
func (d *Dataset) Span() (time.Time, time.Time) {
	n := d.Table.Len()
	if n == 0 {
		return time.Time{}, time.Time{}
	}
	return d.Table.Date(0), d.Table.Date(n - 1)
}

// normalize maps headers onto canonical names, parses and filters dates,
// sorts by date and groups rows into months.
func normalize(g *grid, opts Options) (*Dataset, error) {
	headers := MergeHeaders(g.header)
	dateIdx := findDateColumn(headers, opts.DateTokens)

	// Map headers to canonical names. The first column to claim a name wins.
	names := make([]string, len(headers))
	claimed := map[string]bool{}
	for i, h := range headers {
		name := h
		if i == dateIdx {
			name = model.FieldDate
		} else if m, ok := opts.Mapping[h]; ok {
			name = m
		}
		if name == "" || claimed[name] {
			continue
		}
		claimed[name] = true
		names[i] = name
	}

	var missing []string
	for _, f := range RequiredFields() {
		if !claimed[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &carbon.MissingFieldError{Calculator: "ingest", Fields: missing}
	}

	type parsed struct {
		date time.Time
		row  []any
	}
	var (
		valid   []parsed
		invalid []int
	)
	for i, r := range g.rows {
		if blankRow(r) {
			continue
		}
		d, ok := parseDate(cellOf(r, dateIdx))
		if !ok {
			invalid = append(invalid, i+len(g.header)+1)
			continue
		}
		valid = append(valid, parsed{date: d, row: r})
	}

	ds := &Dataset{monthRows: map[string][]int{}}
	if len(invalid) > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("rows %s have an invalid date and were skipped", joinInts(invalid)))
	}
	if len(valid) == 0 {
		return nil, eris.New("ingest: no rows with a valid date")
	}

	slices.SortStableFunc(valid, func(a, b parsed) int { return a.date.Compare(b.date) })

	t := model.NewTable(len(valid))
	for col, name := range names {
		if name == "" {
			continue
		}
		cells := make([]any, len(valid))
		for i, p := range valid {
			if col == dateIdx {
				cells[i] = p.date
			} else {
				cells[i] = cellOf(p.row, col)
			}
		}
		if err := t.Set(name, cells); err != nil {
			return nil, eris.Wrap(err, "ingest: build table")
		}
	}
	ds.Table = t

	for i, p := range valid {
		key := p.date.Format(MonthLayout)
		if _, ok := ds.monthRows[key]; !ok {
			ds.Months = append(ds.Months, key)
		}
		ds.monthRows[key] = append(ds.monthRows[key], i)
	}

	if issues := t.NumericIssues(model.NumericInputFields()...); len(issues) > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d numeric cells could not be read and count as zero", len(issues)))
	}
	return ds, nil
}

func findDateColumn(headers []string, tokens []string) int {
	for i, h := range headers {
		lh := strings.ToLower(h)
		for _, tok := range tokens {
			if tok != "" && strings.Contains(lh, strings.ToLower(tok)) {
				return i
			}
		}
	}
	return -1
}

func cellOf(r []any, i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

func blankRow(r []any) bool {
	for _, v := range r {
		switch x := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(x) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
