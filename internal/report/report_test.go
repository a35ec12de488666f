package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/model"
	"wwtp-carbon/internal/optimize"
	"wwtp-carbon/internal/pipeline"
)

func sampleRecords() []model.EnrichedRecord {
	return []model.EnrichedRecord{
		{
			DailyRecord: model.DailyRecord{
				Date:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				TreatedWaterM3: 10000,
				ElectricityKWh: 5000,
			},
			EnergyCO2eq: 4709.5,
			TotalCO2eq:  5865.985714,
		},
		{
			DailyRecord: model.DailyRecord{
				Date:           time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC),
				TreatedWaterM3: 12000,
			},
		},
	}
}

func TestWriteLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ledgerHeader, rows[0])
	assert.Len(t, rows[1], len(ledgerHeader))

	assert.Equal(t, "2024-01-01", rows[1][0])
	assert.Equal(t, "10000.000000", rows[1][1])
	assert.Equal(t, "4709.500000", rows[1][15])
	assert.Equal(t, "5865.985714", rows[1][24])
	assert.Equal(t, "2024-01-02T08:30:00Z", rows[2][0])
}

func TestWriteLedgerCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, sampleRecords()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "date,treated_water_m3,"))

	err = WriteLedgerCSV(filepath.Join(t.TempDir(), "missing", "ledger.csv"), nil)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()[:1]))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 10000.0, got[0]["treated_water_m3"], 1e-9)
	assert.InDelta(t, 4709.5, got[0]["energy_CO2eq"], 1e-9)
	assert.Contains(t, buf.String(), "\n  ")
}

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		Month: "2024-01",
		Summary: analysis.Summary{
			Month:          "2024-01",
			Days:           31,
			WaterM3:        310000,
			ElectricityKWh: 155000,
			TotalCO2eq:     181845.56,
			Intensity:      0.5866,
			Efficiency:     1.7047,
		},
		Statement: analysis.Statement{
			Lines: []analysis.AccountLine{
				{Zone: "biological", Inflow: 1000, Outflow: 800, Net: 200},
			},
			TotalInflow: 1000, TotalOutflow: 800, TotalNet: 200,
		},
		Ranking: analysis.Ranking{
			Zones:   []analysis.ZoneEfficiency{{Zone: "sludge", Efficiency: 12.5}},
			Average: 12.5,
		},
		Anomaly: analysis.Anomaly{
			Checked:          true,
			IsAnomaly:        true,
			CurrentIntensity: 2.0,
			HistoryIntensity: 1.0,
			DominantZone:     "biological",
			Suggestions:      analysis.Suggestions("biological"),
		},
		Optimization: &optimize.Result{
			Before: 1000, After: 900, Reduction: 100, ReductionRate: 0.1,
			Effects: []optimize.Effect{{Measure: "aeration", Zone: "biological", Percent: 10, Before: 1000, After: 900}},
		},
		Warnings: []string{"rows 4 have an invalid date and were skipped"},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport()))
	out := buf.String()

	for _, want := range []string{
		"Carbon account 2024-01",
		"310,000 m3",
		"181,845.56 kgCO2eq",
		"biological",
		"1. sludge",
		"dominant zone biological",
		"Check aeration efficiency and trim air supply",
		"reduction 100.00, 10.00%",
		"rows 4 have an invalid date and were skipped",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderText_NotChecked(t *testing.T) {
	rep := sampleReport()
	rep.Anomaly = analysis.Anomaly{Reason: "not enough data for an anomaly check"}
	rep.Optimization = nil
	rep.Warnings = nil

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, rep))
	assert.Contains(t, buf.String(), "not enough data for an anomaly check")
	assert.NotContains(t, buf.String(), "What-if")
	assert.NotContains(t, buf.String(), "Warnings")
}
