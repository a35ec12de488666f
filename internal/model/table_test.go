package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 1.5, want: 1.5, ok: true},
		{in: 3, want: 3, ok: true},
		{in: int64(-2), want: -2, ok: true},
		{in: uint8(7), want: 7, ok: true},
		{in: json.Number("12.25"), want: 12.25, ok: true},
		{in: " 42 ", want: 42, ok: true},
		{in: "1e3", want: 1000, ok: true},
		{in: "", want: 0, ok: false},
		{in: "abc", want: 0, ok: false},
		{in: nil, want: 0, ok: false},
		{in: math.NaN(), want: 0, ok: false},
		{in: "NaN", want: 0, ok: false},
		{in: math.Inf(1), want: math.Inf(1), ok: true},
		{in: "-Inf", want: math.Inf(-1), ok: true},
		{in: true, want: 0, ok: false},
		{in: time.Now(), want: 0, ok: false},
	}
	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
	}
}

func TestTable_SetAndRead(t *testing.T) {
	tab := NewTable(2)
	require.NoError(t, tab.Set("a", []any{"1", nil}))
	require.NoError(t, tab.SetFloats("b", []float64{2, 3}))
	assert.Error(t, tab.Set("c", []any{1}))

	assert.Equal(t, []string{"a", "b"}, tab.Columns())
	assert.Equal(t, []float64{1, 0}, tab.Floats("a"))
	assert.Equal(t, []float64{0, 0}, tab.Floats("missing"))
	assert.Equal(t, 5.0, tab.Sum("b"))
	assert.Nil(t, tab.Value("a", 9))
	assert.Equal(t, []string{"c", "d"}, tab.Missing("a", "c", "b", "d"))

	require.NoError(t, tab.SetFloats("a", []float64{9, 9}))
	assert.Equal(t, []string{"a", "b"}, tab.Columns(), "replacing keeps column order")
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tab := NewTable(1)
	require.NoError(t, tab.SetFloats("x", []float64{1}))
	c := tab.Clone()
	require.NoError(t, c.SetFloats("x", []float64{2}))
	require.NoError(t, c.SetFloats("y", []float64{3}))

	assert.Equal(t, 1.0, tab.Float("x", 0))
	assert.False(t, tab.Has("y"))
}

func TestTable_SelectRowsAndWithout(t *testing.T) {
	tab := NewTable(3)
	require.NoError(t, tab.SetFloats("x", []float64{1, 2, 3}))
	require.NoError(t, tab.SetFloats("y", []float64{4, 5, 6}))

	sub := tab.SelectRows([]int{2, 0})
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, []float64{3, 1}, sub.Floats("x"))

	w := tab.Without("x", "nope")
	assert.Equal(t, []string{"y"}, w.Columns())
	assert.True(t, tab.Has("x"))
}

func TestTable_NumericIssues(t *testing.T) {
	tab := NewTable(3)
	require.NoError(t, tab.Set("x", []any{"1", "bad", ""}))
	require.NoError(t, tab.Set("y", []any{nil, 2.0, "--"}))

	issues := tab.NumericIssues("x", "y", "absent")
	assert.Equal(t, []NumericIssue{
		{Row: 1, Field: "x", Raw: "bad"},
		{Row: 2, Field: "y", Raw: "--"},
	}, issues)
}

func TestRecordsRoundTrip(t *testing.T) {
	d := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	recs := []DailyRecord{{Date: d, TreatedWaterM3: 1, ElectricityKWh: 2, TNInMgL: 3, TNOutMgL: 4, CODInMgL: 5, CODOutMgL: 6, PACKg: 7, PAMKg: 8, NaClOKg: 9}}
	tab := FromRecords(recs)
	assert.Equal(t, append([]string{FieldDate}, NumericInputFields()...), tab.Columns())
	assert.Equal(t, recs, tab.Records())
}

func TestTable_DateFromText(t *testing.T) {
	tab := NewTable(2)
	require.NoError(t, tab.Set(FieldDate, []any{"2024-01-31", "garbage"}))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), tab.Date(0))
	assert.True(t, tab.Date(1).IsZero())
}

func TestTable_Rows(t *testing.T) {
	tab := NewTable(2)
	require.NoError(t, tab.Set("a", []any{1.0, "x"}))
	require.NoError(t, tab.Set("b", []any{nil, 2}))
	assert.Equal(t, []map[string]any{
		{"a": 1.0, "b": nil},
		{"a": "x", "b": 2},
	}, tab.Rows())
	assert.Empty(t, NewTable(0).Rows())
}
