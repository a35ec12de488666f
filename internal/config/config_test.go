package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/carbon"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, carbon.DefaultFactors(), c.Factors)
	assert.Equal(t, "8080", c.API.Port)
	assert.Equal(t, time.Hour, c.API.ReportTTL)
	assert.Equal(t, 3, c.Anomaly.MinHistoryRows)
	assert.InDelta(t, 1.5, c.Anomaly.Ratio, 1e-12)
}

func TestLoad_FactorsFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "factors.yaml", `
factors:
  grid_emission_factor: 0.5703
  gwp_ch4: 27.9
  chemicals:
    pac: 1.8
`)
	path := writeFile(t, dir, "plant.yaml", `
factors_file: factors.yaml
factors:
  gwp_ch4: 30
ingest:
  sheet_name: Daily
  mapping:
    "Flow (m3)": treated_water_m3
anomaly:
  ratio: 2
api:
  port: "9090"
  report_ttl: 15m
log:
  level: debug
  format: console
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.5703, c.Factors.GridFactor, 1e-12)
	assert.InDelta(t, 30, c.Factors.GWPCH4, 1e-12)
	assert.InDelta(t, 1.8, c.Factors.Chemicals.PAC, 1e-12)
	assert.InDelta(t, 1.5, c.Factors.Chemicals.PAM, 1e-12)
	assert.InDelta(t, 265, c.Factors.GWPN2O, 1e-12)
	assert.Equal(t, carbon.DefaultDisplayPartition(), c.Factors.Display)

	assert.Equal(t, "Daily", c.Ingest.SheetName)
	assert.Equal(t, "treated_water_m3", c.Ingest.Mapping["Flow (m3)"])
	assert.InDelta(t, 2, c.Anomaly.Ratio, 1e-12)
	assert.Equal(t, 3, c.Anomaly.MinHistoryRows)
	assert.Equal(t, "9090", c.API.Port)
	assert.Equal(t, 15*time.Minute, c.API.ReportTTL)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"allocation does not sum to one", "factors:\n  energy_allocation: {pretreatment: 0.5, biological: 0.5, advanced: 0.5, sludge: 0.5}\n"},
		{"negative factor", "factors:\n  gwp_n2o: -1\n"},
		{"display fraction above one", "factors:\n  display_partition:\n    - {zone: a, fraction: 1.2}\n    - {zone: b, fraction: 0.6}\n"},
		{"bad header rows", "ingest:\n  header_rows: 3\n"},
		{"negative ratio", "anomaly:\n  ratio: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "c.yaml", tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, dir, "bad-factors.yaml", "factors:\n  gwp_n2o: -1\n"))
	assert.True(t, errors.Is(err, carbon.ErrInvalidFactors))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "broken.yaml", "factors: [\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "missing-include.yaml", "factors_file: gone.yaml\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"API_PORT":             "7000",
		"STATIC_DIR":           "/srv/web",
		"LOG_LEVEL":            "warn",
		"CORS_ALLOWED_ORIGINS": " http://a.example , ,http://b.example",
	}
	c := Default()
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "7000", c.API.Port)
	assert.Equal(t, "development", c.API.Env)
	assert.Equal(t, "/srv/web", c.API.StaticDir)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, c.API.AllowedOrigins)
}

func TestMergeFactors(t *testing.T) {
	base := carbon.DefaultFactors()
	out := MergeFactors(base, carbon.EmissionFactors{
		Allocation: carbon.EnergyAllocation{Pretreatment: 0.25, Biological: 0.25, Advanced: 0.25, Sludge: 0.25},
	})
	assert.InDelta(t, 0.25, out.Allocation.Biological, 1e-12)
	assert.Equal(t, base.GridFactor, out.GridFactor)

	out.Display[0].Fraction = 99
	assert.NotEqual(t, 99.0, base.Display[0].Fraction)
}
