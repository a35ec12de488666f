package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"wwtp-carbon/internal/carbon"
)

// grid is a raw sheet: header rows as text plus data rows as cells. Numeric
// workbook cells arrive as float64, everything else as trimmed text.
type grid struct {
	header [][]string
	rows   [][]any
}

func readXLSX(f *xlsx.File, opts Options) (*grid, error) {
	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	g := &grid{}
	for i, row := range sheet.Rows {
		if row == nil {
			row = &xlsx.Row{}
		}
		if i < opts.HeaderRows {
			g.header = append(g.header, rowToStrings(row))
			continue
		}
		g.rows = append(g.rows, rowToCells(row))
	}
	if len(g.header) < opts.HeaderRows {
		return nil, eris.Errorf("xlsx: sheet %q has %d rows, want at least %d header rows", sheet.Name, len(sheet.Rows), opts.HeaderRows)
	}
	return g, nil
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func rowToCells(row *xlsx.Row) []any {
	cells := make([]any, len(row.Cells))
	for j, cell := range row.Cells {
		switch cell.Type() {
		case xlsx.CellTypeNumeric, xlsx.CellTypeDate:
			if f, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64); err == nil {
				cells[j] = f
				continue
			}
		}
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

func readCSV(r io.Reader, opts Options) (*grid, error) {
	if strings.EqualFold(opts.Encoding, "gb18030") || strings.EqualFold(opts.Encoding, "gbk") {
		r = simplifiedchinese.GB18030.NewDecoder().Reader(r)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}
	if len(records) < opts.HeaderRows {
		return nil, eris.Errorf("csv: %d rows, want at least %d header rows", len(records), opts.HeaderRows)
	}
	g := &grid{header: records[:opts.HeaderRows]}
	if len(g.header) > 0 && len(g.header[0]) > 0 {
		g.header[0][0] = strings.TrimPrefix(g.header[0][0], "\ufeff")
	}
	for _, rec := range records[opts.HeaderRows:] {
		cells := make([]any, len(rec))
		for j, v := range rec {
			cells[j] = strings.TrimSpace(v)
		}
		g.rows = append(g.rows, cells)
	}
	return g, nil
}

// readJSON accepts an array of flat objects. Keys are used as single-row
// headers.
func readJSON(raw []byte) (*grid, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(err, "json: decode")
	}
	t, err := carbon.FromRows(v)
	if err != nil {
		return nil, err
	}
	cols := t.Columns()
	g := &grid{header: [][]string{cols}}
	for i := 0; i < t.Len(); i++ {
		cells := make([]any, len(cols))
		for j, c := range cols {
			cells[j] = t.Value(c, i)
		}
		g.rows = append(g.rows, cells)
	}
	return g, nil
}
