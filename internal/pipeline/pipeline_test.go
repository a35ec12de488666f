package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/ingest"
)

func row(date string, water, kwh float64) string {
	return fmt.Sprintf(`{"date":%q,"treated_water_m3":%v,"electricity_kwh":%v,"tn_in_mgl":40,"tn_out_mgl":30,
		"cod_in_mgl":200,"cod_out_mgl":180,"pac_kg":300,"pam_kg":0,"naclo_kg":0}`, date, water, kwh)
}

func dataset(t *testing.T, rows ...string) *ingest.Dataset {
	t.Helper()
	body := "[" + strings.Join(rows, ",") + "]"
	ds, err := ingest.NewLoader(ingest.DefaultOptions(), zerolog.Nop()).Load("d.json", []byte(body))
	require.NoError(t, err)
	return ds
}

func TestRun_SelectedMonth(t *testing.T) {
	ds := dataset(t,
		row("2024-01-01", 10000, 5000),
		row("2024-01-02", 10000, 5000),
		row("2024-02-01", 10000, 5000),
		row("2024-03-01", 10000, 5000),
	)
	rep, err := Run(context.Background(), carbon.Default(), ds, Options{Month: "2024-01", AerationPct: 10})
	require.NoError(t, err)

	assert.Equal(t, "2024-01", rep.Month)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, rep.Months)
	require.Len(t, rep.History, 3)
	require.Len(t, rep.Records, 2)
	assert.Equal(t, 2, rep.Summary.Days)
	assert.InDelta(t, 2*5865.9857142857, rep.Summary.TotalCO2eq, 1e-6)
	assert.InEpsilon(t, rep.Summary.TotalCO2eq, rep.Summary.PrimaryTotal(), 1e-9)

	assert.Len(t, rep.Heatmap, 6)
	assert.Len(t, rep.Statement.Lines, 6)
	assert.Len(t, rep.Ranking.Zones, 6)
	assert.True(t, rep.Anomaly.Checked)
	assert.False(t, rep.Anomaly.IsAnomaly)
	require.NotNil(t, rep.Optimization)
	assert.InDelta(t, rep.Summary.Zone(carbon.ZoneBiological)*0.1, rep.Optimization.Reduction, 1e-9)
	assert.Equal(t, 2, rep.DailyStats.Count)
}

func TestRun_DefaultsToLatestMonthAndFlagsAnomaly(t *testing.T) {
	ds := dataset(t,
		row("2024-01-01", 10000, 5000),
		row("2024-01-02", 10000, 5000),
		row("2024-01-03", 10000, 5000),
		row("2024-02-01", 2000, 5000),
	)
	rep, err := Run(context.Background(), carbon.Default(), ds, Options{})
	require.NoError(t, err)
	assert.Equal(t, "2024-02", rep.Month)
	assert.True(t, rep.Anomaly.IsAnomaly)
	assert.Equal(t, carbon.ZoneBiological, rep.Anomaly.DominantZone)
	assert.NotEmpty(t, rep.Anomaly.Suggestions)
}

func TestRun_Errors(t *testing.T) {
	ds := dataset(t, row("2024-01-01", 1, 1))

	_, err := Run(context.Background(), carbon.Default(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = Run(context.Background(), carbon.Default(), ds, Options{Month: "1999-01"})
	assert.Error(t, err)

	_, err = Run(context.Background(), carbon.Default(), ds, Options{AerationPct: 50})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, carbon.Default(), ds, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Deterministic(t *testing.T) {
	var rows []string
	for m := 1; m <= 12; m++ {
		for d := 1; d <= 3; d++ {
			rows = append(rows, row(fmt.Sprintf("2023-%02d-%02d", m, d), float64(9000+m*10+d), float64(4000+m*7)))
		}
	}
	ds := dataset(t, rows...)
	a, err := Run(context.Background(), carbon.Default(), ds, Options{Concurrency: 3})
	require.NoError(t, err)
	b, err := Run(context.Background(), carbon.Default(), ds, Options{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Records, b.Records)
}
