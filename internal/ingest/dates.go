package ingest

import (
	"math"
	"strings"
	"time"

	"wwtp-carbon/internal/model"
)

// excelEpoch is day zero of spreadsheet serial dates (1900 date system, with
// the leap-year bug absorbed).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006年01月02日",
	"2006年1月2日",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
}

// FromSerial converts a spreadsheet serial day number, keeping the fractional
// part as time of day.
func FromSerial(serial float64) time.Time {
	return excelEpoch.Add(time.Duration(math.Round(serial * float64(24*time.Hour))))
}

// parseDate reads a date cell. Numbers are serial dates; text tries the
// layouts above, then falls back to a serial number written as text.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	}
	f, ok := model.ToFloat(v)
	if !ok || math.IsInf(f, 0) || math.Abs(f) > maxSerial {
		return time.Time{}, false
	}
	return FromSerial(f), true
}
