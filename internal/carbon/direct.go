package carbon

import (
	"math"

	"wwtp-carbon/internal/model"
)

// DirectCalculator derives process N2O and CH4 emissions from nitrogen and
// organic-load removal.
type DirectCalculator struct {
	f EmissionFactors
}

func NewDirectCalculator(f EmissionFactors) *DirectCalculator {
	return &DirectCalculator{f: f}
}

func (c *DirectCalculator) Name() string { return "direct" }

func (c *DirectCalculator) Required() []string {
	return []string{
		model.FieldVolume,
		model.FieldTNIn,
		model.FieldTNOut,
		model.FieldCODIn,
		model.FieldCODOut,
	}
}

// Apply adds N2O_emission_kg, N2O_CO2eq, COD_removed_kg, CH4_emission_kg and
// CH4_CO2eq.
//
// The TN difference keeps its sign: a row whose effluent TN exceeds influent TN
// contributes negative N2O. COD removal is taken as an absolute value.
func (c *DirectCalculator) Apply(t *model.Table) (*model.Table, error) {
	out, err := prepare(c, t)
	if err != nil {
		return nil, err
	}
	n := out.Len()
	n2o := make([]float64, n)
	n2oEq := make([]float64, n)
	codRemoved := make([]float64, n)
	ch4 := make([]float64, n)
	ch4Eq := make([]float64, n)

	for i := 0; i < n; i++ {
		vol := out.Float(model.FieldVolume, i)
		tnIn := out.Float(model.FieldTNIn, i)
		tnOut := out.Float(model.FieldTNOut, i)
		codIn := out.Float(model.FieldCODIn, i)
		codOut := out.Float(model.FieldCODOut, i)

		n2o[i] = vol * (tnIn - tnOut) * c.f.EFN2O * c.f.N2ONToN2O / 1000
		n2oEq[i] = n2o[i] * c.f.GWPN2O
		codRemoved[i] = vol * math.Abs(codIn-codOut) / 1000
		ch4[i] = codRemoved[i] * c.f.CH4YieldB0 * c.f.CH4CorrectionMCF
		ch4Eq[i] = ch4[i] * c.f.GWPCH4
	}

	setColumns(out,
		[]string{model.FieldN2OEmission, model.FieldN2OCO2eq, model.FieldCODRemoved, model.FieldCH4Emission, model.FieldCH4CO2eq},
		[][]float64{n2o, n2oEq, codRemoved, ch4, ch4Eq},
	)
	return out, nil
}
