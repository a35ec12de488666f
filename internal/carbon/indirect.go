package carbon

import "wwtp-carbon/internal/model"

// IndirectCalculator derives emissions from purchased electricity and
// chemical dosing.
type IndirectCalculator struct {
	f EmissionFactors
}

func NewIndirectCalculator(f EmissionFactors) *IndirectCalculator {
	return &IndirectCalculator{f: f}
}

func (c *IndirectCalculator) Name() string { return "indirect" }

func (c *IndirectCalculator) Required() []string {
	return []string{
		model.FieldElectricity,
		model.FieldPAC,
		model.FieldPAM,
		model.FieldNaClO,
	}
}

func (c *IndirectCalculator) Apply(t *model.Table) (*model.Table, error) {
	out, err := prepare(c, t)
	if err != nil {
		return nil, err
	}
	n := out.Len()
	energy := make([]float64, n)
	pac := make([]float64, n)
	pam := make([]float64, n)
	naclo := make([]float64, n)
	chem := make([]float64, n)

	for i := 0; i < n; i++ {
		energy[i] = out.Float(model.FieldElectricity, i) * c.f.GridFactor
		pac[i] = out.Float(model.FieldPAC, i) * c.f.Chemicals.PAC
		pam[i] = out.Float(model.FieldPAM, i) * c.f.Chemicals.PAM
		naclo[i] = out.Float(model.FieldNaClO, i) * c.f.Chemicals.NaClO
		chem[i] = pac[i] + pam[i] + naclo[i]
	}

	setColumns(out,
		[]string{model.FieldEnergyCO2eq, model.FieldPACCO2eq, model.FieldPAMCO2eq, model.FieldNaClOCO2eq, model.FieldChemicalsCO2eq},
		[][]float64{energy, pac, pam, naclo, chem},
	)
	return out, nil
}
