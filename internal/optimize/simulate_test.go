package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/carbon"
)

func summary() analysis.Summary {
	return analysis.Summary{
		Month:      "2024-03",
		TotalCO2eq: 1000,
		Zones: []analysis.ZoneTotal{
			{Zone: carbon.ZonePretreatment, CO2eq: 100},
			{Zone: carbon.ZoneBiological, CO2eq: 600},
			{Zone: carbon.ZoneAdvanced, CO2eq: 250},
			{Zone: carbon.ZoneSludge, CO2eq: 50},
		},
	}
}

func TestLevels(t *testing.T) {
	res, err := Levels(summary(), 10, 20)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.Before, 1e-12)
	// 600*0.1 + 250*0.2
	assert.InDelta(t, 110.0, res.Reduction, 1e-9)
	assert.InDelta(t, 890.0, res.After, 1e-9)
	assert.InDelta(t, 0.11, res.ReductionRate, 1e-12)
	require.Len(t, res.Effects, 2)
	assert.Equal(t, "aeration", res.Effects[0].Measure)
	assert.InDelta(t, 540.0, res.Effects[0].After, 1e-9)
}

func TestLevels_NegativeIncreasesEmissions(t *testing.T) {
	res, err := Levels(summary(), -30, 0)
	require.NoError(t, err)
	assert.InDelta(t, -180.0, res.Reduction, 1e-9)
	assert.InDelta(t, 1180.0, res.After, 1e-9)
	assert.Less(t, res.ReductionRate, 0.0)
}

func TestSimulate_Bounds(t *testing.T) {
	_, err := Levels(summary(), 31, 0)
	require.Error(t, err)
	_, err = Levels(summary(), 0, -21)
	require.Error(t, err)
	_, err = Simulate(summary(), Setting{Measure: AerationMeasure{}, Percent: 5}, Setting{Measure: AerationMeasure{}, Percent: 5})
	require.Error(t, err)
	_, err = Simulate(summary(), Setting{})
	require.Error(t, err)
}

func TestSimulate_ZeroTotal(t *testing.T) {
	res, err := Levels(analysis.Summary{}, 10, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Reduction)
	assert.Zero(t, res.ReductionRate)

	res, err = Simulate(summary())
	require.NoError(t, err)
	assert.Equal(t, res.Before, res.After)
}

func TestByName(t *testing.T) {
	m, err := ByName("pac_dosing")
	require.NoError(t, err)
	assert.Equal(t, carbon.ZoneAdvanced, m.Zone())
	_, err = ByName("nope")
	assert.Error(t, err)
}
