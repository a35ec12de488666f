package carbon

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/model"
)

func knownRecord() model.DailyRecord {
	return model.DailyRecord{
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		TreatedWaterM3: 10000,
		ElectricityKWh: 5000,
		TNInMgL:        40,
		TNOutMgL:       30,
		CODInMgL:       200,
		CODOutMgL:      180,
		PACKg:          300,
	}
}

func TestEngine_KnownValueScenario(t *testing.T) {
	out, err := Default().Enrich([]model.DailyRecord{knownRecord()})
	require.NoError(t, err)
	require.Len(t, out, 1)
	r := out[0]

	assert.InDelta(t, 2.5142857142857, r.N2OEmissionKg, 1e-9)
	assert.InDelta(t, 666.2857142857, r.N2OCO2eq, 1e-6)
	assert.InDelta(t, 200.0, r.CODRemovedKg, 1e-9)
	assert.InDelta(t, 0.15, r.CH4EmissionKg, 1e-12)
	assert.InDelta(t, 4.2, r.CH4CO2eq, 1e-9)
	assert.InDelta(t, 4709.5, r.EnergyCO2eq, 1e-9)
	assert.InDelta(t, 486.0, r.PACCO2eq, 1e-9)
	assert.Zero(t, r.PAMCO2eq)
	assert.Zero(t, r.NaClOCO2eq)
	assert.InDelta(t, 486.0, r.ChemicalsCO2eq, 1e-9)

	assert.InDelta(t, 941.9, r.PretreatmentCO2eq, 1e-9)
	assert.InDelta(t, 3025.2357142857, r.BiologicalCO2eq, 1e-6)
	assert.InDelta(t, 1427.9, r.AdvancedCO2eq, 1e-9)
	assert.InDelta(t, 470.95, r.SludgeCO2eq, 1e-9)
	// The four zones add up to 5865.99, the full energy plus the direct and
	// chemical emissions.
	assert.InDelta(t, 5865.9857142857, r.TotalCO2eq, 1e-6)
	assert.InDelta(t, 10000/5865.9857142857, r.CarbonEfficiency, 1e-9)
}

func TestEngine_ExactEvaluationOrder(t *testing.T) {
	rec := knownRecord()
	out, err := Default().Enrich([]model.DailyRecord{rec})
	require.NoError(t, err)

	want := rec.TreatedWaterM3 * (rec.TNInMgL - rec.TNOutMgL) * 0.016 * (44.0 / 28.0) / 1000
	assert.Equal(t, want, out[0].N2OEmissionKg)
	assert.Equal(t, want*265, out[0].N2OCO2eq)
}

func TestEngine_ZeroInput(t *testing.T) {
	out, err := Default().Enrich([]model.DailyRecord{{}})
	require.NoError(t, err)
	r := out[0]
	for name, v := range map[string]float64{
		"n2o":          r.N2OEmissionKg,
		"n2o_eq":       r.N2OCO2eq,
		"cod":          r.CODRemovedKg,
		"ch4":          r.CH4EmissionKg,
		"ch4_eq":       r.CH4CO2eq,
		"energy":       r.EnergyCO2eq,
		"chemicals":    r.ChemicalsCO2eq,
		"pretreatment": r.PretreatmentCO2eq,
		"biological":   r.BiologicalCO2eq,
		"advanced":     r.AdvancedCO2eq,
		"sludge":       r.SludgeCO2eq,
		"total":        r.TotalCO2eq,
		"efficiency":   r.CarbonEfficiency,
	} {
		assert.Zerof(t, v, "%s", name)
	}
}

func TestEngine_ZeroTotalEfficiencyIsVolume(t *testing.T) {
	out, err := Default().Enrich([]model.DailyRecord{{TreatedWaterM3: 8000}})
	require.NoError(t, err)
	assert.Zero(t, out[0].TotalCO2eq)
	assert.Equal(t, 8000.0, out[0].CarbonEfficiency)
}

func TestEngine_NegativeTNDriverPropagates(t *testing.T) {
	rec := knownRecord()
	rec.TNInMgL, rec.TNOutMgL = 20, 35
	rec.ElectricityKWh = 0
	rec.PACKg = 0
	rec.CODInMgL, rec.CODOutMgL = 0, 0

	out, err := Default().Enrich([]model.DailyRecord{rec})
	require.NoError(t, err)
	r := out[0]
	assert.Less(t, r.N2OEmissionKg, 0.0)
	assert.Less(t, r.N2OCO2eq, 0.0)
	assert.Equal(t, r.N2OCO2eq, r.BiologicalCO2eq)
	assert.Equal(t, r.N2OCO2eq, r.TotalCO2eq)
}

func TestEngine_CODRemovalIsAbsolute(t *testing.T) {
	rec := knownRecord()
	rec.CODInMgL, rec.CODOutMgL = 180, 200
	out, err := Default().Enrich([]model.DailyRecord{rec})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, out[0].CODRemovedKg, 1e-9)
}

func TestEngine_LinearityOfAllocation(t *testing.T) {
	recs := []model.DailyRecord{
		knownRecord(),
		{TreatedWaterM3: 12000, ElectricityKWh: 6100, TNInMgL: 38, TNOutMgL: 9.5, CODInMgL: 310, CODOutMgL: 22, PACKg: 410, PAMKg: 12.5, NaClOKg: 90},
		{TreatedWaterM3: 9500, ElectricityKWh: 4800, TNInMgL: 12, TNOutMgL: 15, CODInMgL: 150, CODOutMgL: 170, PAMKg: 3},
	}
	res, err := Default().Run(model.FromRecords(recs))
	require.NoError(t, err)

	zoneSum := 0.0
	for _, r := range res.Table.EnrichedRecords() {
		parts := r.PretreatmentCO2eq + r.BiologicalCO2eq + r.AdvancedCO2eq + r.SludgeCO2eq
		assert.InEpsilon(t, parts, r.TotalCO2eq, 1e-9)
		zoneSum += parts
	}
	assert.InEpsilon(t, zoneSum, res.Table.Sum(model.FieldTotalCO2eq), 1e-9)

	// Allocating the summed inputs gives the same total as summing the rows.
	e := Default()
	f := e.Factors()
	energy := res.Table.Sum(model.FieldEnergyCO2eq)
	direct := res.Table.Sum(model.FieldN2OCO2eq) + res.Table.Sum(model.FieldCH4CO2eq)
	chem := res.Table.Sum(model.FieldChemicalsCO2eq)
	allocated := energy*f.Allocation.Pretreatment + (direct + energy*f.Allocation.Biological) +
		(chem + energy*f.Allocation.Advanced) + energy*f.Allocation.Sludge
	assert.InEpsilon(t, allocated, res.Table.Sum(model.FieldTotalCO2eq), 1e-9)
}

func TestEngine_Idempotent(t *testing.T) {
	in := model.FromRecords([]model.DailyRecord{knownRecord(), {TreatedWaterM3: 1, ElectricityKWh: 2}})
	e := Default()
	a, err := e.Run(in)
	require.NoError(t, err)
	b, err := e.Run(in)
	require.NoError(t, err)
	assert.Equal(t, a.Table.Columns(), b.Table.Columns())
	assert.Equal(t, a.Table.EnrichedRecords(), b.Table.EnrichedRecords())

	// Re-running on an already enriched table recomputes the same values.
	c, err := e.Run(a.Table)
	require.NoError(t, err)
	assert.Equal(t, a.Table.EnrichedRecords(), c.Table.EnrichedRecords())
}

func TestEngine_MissingFieldDetection(t *testing.T) {
	required := map[string]string{
		model.FieldVolume:      "direct",
		model.FieldTNIn:        "direct",
		model.FieldTNOut:       "direct",
		model.FieldCODIn:       "direct",
		model.FieldCODOut:      "direct",
		model.FieldElectricity: "indirect",
		model.FieldPAC:         "indirect",
		model.FieldPAM:         "indirect",
		model.FieldNaClO:       "indirect",
	}
	base := model.FromRecords([]model.DailyRecord{knownRecord()})
	for field, calc := range required {
		t.Run(field, func(t *testing.T) {
			_, err := Default().Run(base.Without(field))
			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, calc, mfe.Calculator)
			assert.Equal(t, []string{field}, mfe.Fields)
		})
	}
}

func TestEngine_MissingFieldsReportedTogether(t *testing.T) {
	in := model.FromRecords([]model.DailyRecord{knownRecord()}).Without(model.FieldTNOut, model.FieldVolume, model.FieldCODIn)
	_, err := Default().Run(in)
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "direct", mfe.Calculator)
	assert.Equal(t, []string{model.FieldVolume, model.FieldTNOut, model.FieldCODIn}, mfe.Fields)
	assert.Contains(t, err.Error(), "treated_water_m3")
}

func TestUnitCalculator_RequiresUpstreamOutputs(t *testing.T) {
	in := model.FromRecords([]model.DailyRecord{knownRecord()})
	_, err := NewUnitCalculator(DefaultFactors()).Apply(in)
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "units", mfe.Calculator)
	assert.ElementsMatch(t, []string{
		model.FieldEnergyCO2eq, model.FieldN2OCO2eq, model.FieldCH4CO2eq, model.FieldChemicalsCO2eq,
	}, mfe.Fields)
}

func TestCalculators_IndependentOrder(t *testing.T) {
	f := DefaultFactors()
	in := model.FromRecords([]model.DailyRecord{knownRecord()})
	d := NewDirectCalculator(f)
	i := NewIndirectCalculator(f)

	a, err := d.Apply(in)
	require.NoError(t, err)
	a, err = i.Apply(a)
	require.NoError(t, err)

	b, err := i.Apply(in)
	require.NoError(t, err)
	b, err = d.Apply(b)
	require.NoError(t, err)

	for _, name := range []string{model.FieldN2OCO2eq, model.FieldCH4CO2eq, model.FieldEnergyCO2eq, model.FieldChemicalsCO2eq} {
		assert.Equal(t, a.Floats(name), b.Floats(name), name)
	}
}

func TestEngine_InputUntouched(t *testing.T) {
	in := model.FromRecords([]model.DailyRecord{knownRecord()})
	before := in.Columns()

	_, err := Default().Run(in)
	require.NoError(t, err)
	assert.Equal(t, before, in.Columns())

	broken := in.Without(model.FieldNaClO)
	cols := broken.Columns()
	res, err := Default().Run(broken)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, cols, broken.Columns())
	assert.False(t, broken.Has(model.FieldN2OCO2eq))
}

func TestEngine_ZeroFillAndIssues(t *testing.T) {
	var rows []any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"treated_water_m3": "10000", "electricity_kwh": 5000, "tn_in_mgl": "40", "tn_out_mgl": 30,
		 "cod_in_mgl": 200, "cod_out_mgl": 180, "pac_kg": " 300 ", "pam_kg": "n/a", "naclo_kg": null}
	]`), &rows))
	in, err := FromRows(rows)
	require.NoError(t, err)

	res, err := Default().Run(in)
	require.NoError(t, err)
	rec := res.Table.EnrichedRecords()[0]
	assert.InDelta(t, 5865.9857142857, rec.TotalCO2eq, 1e-6)
	assert.Zero(t, rec.PAMCO2eq)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, model.NumericIssue{Row: 0, Field: model.FieldPAM, Raw: "n/a"}, res.Issues[0])
}

func TestEngine_InvalidShape(t *testing.T) {
	_, err := Default().Run(nil)
	var ise *InvalidShapeError
	require.ErrorAs(t, err, &ise)
	assert.False(t, errors.As(err, new(*MissingFieldError)))
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantErr bool
		cols    []string
		rows    int
	}{
		{name: "array of objects", in: []any{map[string]any{"b": 1.0, "a": 2.0}, map[string]any{"c": "x"}}, cols: []string{"a", "b", "c"}, rows: 2},
		{name: "typed rows", in: []map[string]any{{"a": 1}}, cols: []string{"a"}, rows: 1},
		{name: "empty array", in: []any{}, rows: 0},
		{name: "null", in: nil, wantErr: true},
		{name: "object", in: map[string]any{"a": 1}, wantErr: true},
		{name: "array of scalars", in: []any{1.0, 2.0}, wantErr: true},
		{name: "string", in: "rows", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := FromRows(tt.in)
			if tt.wantErr {
				var ise *InvalidShapeError
				require.ErrorAs(t, err, &ise)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, tab.Len())
			assert.Equal(t, tt.cols, tab.Columns())
		})
	}
}

func TestFactors_Validate(t *testing.T) {
	require.NoError(t, DefaultFactors().Validate())

	bad := DefaultFactors()
	bad.Allocation.Sludge = 0.2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidFactors)

	bad = DefaultFactors()
	bad.GWPCH4 = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidFactors)

	bad = DefaultFactors()
	bad.Display = DisplayPartition{{Zone: ZoneBiological, Fraction: 0.4}, {Zone: ZoneBiological, Fraction: 0.4}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidFactors)

	bad = DefaultFactors()
	bad.Display[4].Fraction = 1.2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidFactors)

	_, err := New(bad)
	assert.ErrorIs(t, err, ErrInvalidFactors)
}

func TestDefaultDisplayPartition(t *testing.T) {
	p := DefaultDisplayPartition()
	assert.Equal(t, []string{ZonePretreatment, ZoneBiological, ZoneAdvanced, ZoneSludge, ZoneEffluent, ZoneDeodorization}, p.Zones())

	tests := []struct {
		zone string
		want float64
	}{
		{ZonePretreatment, 0.3193},
		{ZoneBiological, 0.4453},
		{ZoneAdvanced, 0.1155},
		{ZoneSludge, 0.0507},
		{ZoneEffluent, 0.0672},
		{ZoneDeodorization, 0.0267},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Fraction(tt.zone))
		})
	}
	assert.InDelta(t, 1.0247, p.Sum(), 1e-12)
	assert.Zero(t, p.Fraction("unknown"))
}

func TestEngine_FactorsAreCopied(t *testing.T) {
	f := DefaultFactors()
	e, err := New(f)
	require.NoError(t, err)
	f.Display[0].Fraction = 99
	got := e.Factors()
	got.Display[1].Fraction = 42
	assert.InDelta(t, 1.0247, e.Factors().Display.Sum(), 1e-12)
}
