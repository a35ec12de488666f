package carbon

import "wwtp-carbon/internal/model"

// UnitCalculator allocates emissions to the four process zones and derives
// per-row totals. It consumes the output of DirectCalculator and
// IndirectCalculator.
type UnitCalculator struct {
	a EnergyAllocation
}

func NewUnitCalculator(f EmissionFactors) *UnitCalculator {
	return &UnitCalculator{a: f.Allocation}
}

func (c *UnitCalculator) Name() string { return "units" }

func (c *UnitCalculator) Required() []string {
	return []string{
		model.FieldEnergyCO2eq,
		model.FieldN2OCO2eq,
		model.FieldCH4CO2eq,
		model.FieldChemicalsCO2eq,
		model.FieldVolume,
	}
}

// Apply adds the zone allocations, total_CO2eq and carbon_efficiency.
// Direct emissions land entirely in the biological zone and chemicals in the
// advanced zone. When a row's total is exactly zero the efficiency divisor is
// 1, so carbon_efficiency equals the treated volume.
func (c *UnitCalculator) Apply(t *model.Table) (*model.Table, error) {
	out, err := prepare(c, t)
	if err != nil {
		return nil, err
	}
	n := out.Len()
	pre := make([]float64, n)
	bio := make([]float64, n)
	adv := make([]float64, n)
	sludge := make([]float64, n)
	total := make([]float64, n)
	eff := make([]float64, n)

	for i := 0; i < n; i++ {
		energy := out.Float(model.FieldEnergyCO2eq, i)
		n2o := out.Float(model.FieldN2OCO2eq, i)
		ch4 := out.Float(model.FieldCH4CO2eq, i)
		chem := out.Float(model.FieldChemicalsCO2eq, i)
		vol := out.Float(model.FieldVolume, i)

		pre[i] = energy * c.a.Pretreatment
		bio[i] = n2o + ch4 + energy*c.a.Biological
		adv[i] = chem + energy*c.a.Advanced
		sludge[i] = energy * c.a.Sludge
		total[i] = pre[i] + bio[i] + adv[i] + sludge[i]

		div := total[i]
		if div == 0 {
			div = 1
		}
		eff[i] = vol / div
	}

	setColumns(out,
		[]string{
			model.FieldPretreatmentCO2eq,
			model.FieldBiologicalCO2eq,
			model.FieldAdvancedCO2eq,
			model.FieldSludgeCO2eq,
			model.FieldTotalCO2eq,
			model.FieldCarbonEfficiency,
		},
		[][]float64{pre, bio, adv, sludge, total, eff},
	)
	return out, nil
}
