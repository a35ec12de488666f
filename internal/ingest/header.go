package ingest

import "strings"

// MergeHeaders flattens one or two header rows into column names.
//
// The first row is forward-filled across blank (merged) cells. A column whose
// second-row label is blank keeps the first-row name alone; otherwise the name
// is "first_second". Whitespace runs, including newlines, collapse to a single
// space.
func MergeHeaders(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	top := make([]string, width)
	last := ""
	for i := range top {
		v := normalizeHeader(cellAt(rows[0], i))
		if v == "" {
			v = last
		}
		top[i] = v
		last = v
	}
	if len(rows) == 1 {
		return top
	}
	out := make([]string, width)
	for i := range out {
		sub := normalizeHeader(cellAt(rows[1], i))
		switch {
		case sub == "":
			out[i] = top[i]
		case top[i] == "":
			out[i] = sub
		default:
			out[i] = normalizeHeader(top[i] + "_" + sub)
		}
	}
	return out
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cellAt(r []string, i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}
