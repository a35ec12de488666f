package carbon

import (
	"fmt"
	"math"
)

// ChemicalFactors are kg CO2eq per kg of dosed chemical.
type ChemicalFactors struct {
	PAC   float64 `yaml:"pac" json:"pac"`
	PAM   float64 `yaml:"pam" json:"pam"`
	NaClO float64 `yaml:"naclo" json:"naclo"`
}

// EnergyAllocation splits site electricity across the four accounting zones.
type EnergyAllocation struct {
	Pretreatment float64 `yaml:"pretreatment" json:"pretreatment"`
	Biological   float64 `yaml:"biological" json:"biological"`
	Advanced     float64 `yaml:"advanced" json:"advanced"`
	Sludge       float64 `yaml:"sludge" json:"sludge"`
}

func (a EnergyAllocation) Sum() float64 {
	return a.Pretreatment + a.Biological + a.Advanced + a.Sludge
}

// Display zone names, in presentation order.
const (
	ZonePretreatment  = "pretreatment"
	ZoneBiological    = "biological"
	ZoneAdvanced      = "advanced"
	ZoneSludge        = "sludge"
	ZoneEffluent      = "effluent"
	ZoneDeodorization = "deodorization"
)

// PrimaryZones are the four zones the engine allocates to.
func PrimaryZones() []string {
	return []string{ZonePretreatment, ZoneBiological, ZoneAdvanced, ZoneSludge}
}

// ZoneFraction is one named share of energy_CO2eq.
type ZoneFraction struct {
	Zone     string  `yaml:"zone" json:"zone"`
	Fraction float64 `yaml:"fraction" json:"fraction"`
}

// DisplayPartition is the finer split of energy_CO2eq used by reports and
// charts. It never feeds the accounting totals.
type DisplayPartition []ZoneFraction

// Fraction returns the share for zone, or 0 if the zone is not listed.
func (p DisplayPartition) Fraction(zone string) float64 {
	for _, z := range p {
		if z.Zone == zone {
			return z.Fraction
		}
	}
	return 0
}

func (p DisplayPartition) Zones() []string {
	out := make([]string, len(p))
	for i, z := range p {
		out[i] = z.Zone
	}
	return out
}

func (p DisplayPartition) Sum() float64 {
	s := 0.0
	for _, z := range p {
		s += z.Fraction
	}
	return s
}

// EmissionFactors is the constant configuration of the accounting engine.
type EmissionFactors struct {
	EFN2O            float64 `yaml:"ef_n2o" json:"ef_n2o"`
	N2ONToN2O        float64 `yaml:"n2o_n_to_n2o" json:"n2o_n_to_n2o"`
	GWPN2O           float64 `yaml:"gwp_n2o" json:"gwp_n2o"`
	CH4YieldB0       float64 `yaml:"ch4_yield_b0" json:"ch4_yield_b0"`
	CH4CorrectionMCF float64 `yaml:"ch4_correction_mcf" json:"ch4_correction_mcf"`
	GWPCH4           float64 `yaml:"gwp_ch4" json:"gwp_ch4"`
	GridFactor       float64 `yaml:"grid_emission_factor" json:"grid_emission_factor"`

	Chemicals  ChemicalFactors  `yaml:"chemicals" json:"chemicals"`
	Allocation EnergyAllocation `yaml:"energy_allocation" json:"energy_allocation"`
	Display    DisplayPartition `yaml:"display_partition" json:"display_partition"`
}

// DefaultFactors returns the plant's reference factor table.
func DefaultFactors() EmissionFactors {
	return EmissionFactors{
		EFN2O:            0.016,
		N2ONToN2O:        44.0 / 28.0,
		GWPN2O:           265,
		CH4YieldB0:       0.25,
		CH4CorrectionMCF: 0.003,
		GWPCH4:           28,
		GridFactor:       0.9419,
		Chemicals: ChemicalFactors{
			PAC:   1.62,
			PAM:   1.5,
			NaClO: 0.92,
		},
		Allocation: EnergyAllocation{
			Pretreatment: 0.20,
			Biological:   0.50,
			Advanced:     0.20,
			Sludge:       0.10,
		},
		Display: DefaultDisplayPartition(),
	}
}

// DefaultDisplayPartition is the plant's six-zone energy split. The weights
// are applied as recorded and add up to 1.0247.
func DefaultDisplayPartition() DisplayPartition {
	return DisplayPartition{
		{Zone: ZonePretreatment, Fraction: 0.3193},
		{Zone: ZoneBiological, Fraction: 0.4453},
		{Zone: ZoneAdvanced, Fraction: 0.1155},
		{Zone: ZoneSludge, Fraction: 0.0507},
		{Zone: ZoneEffluent, Fraction: 0.0672},
		{Zone: ZoneDeodorization, Fraction: 0.0267},
	}
}

const sumTolerance = 1e-9

func (f EmissionFactors) Validate() error {
	scalars := []struct {
		name string
		v    float64
	}{
		{"ef_n2o", f.EFN2O},
		{"n2o_n_to_n2o", f.N2ONToN2O},
		{"gwp_n2o", f.GWPN2O},
		{"ch4_yield_b0", f.CH4YieldB0},
		{"ch4_correction_mcf", f.CH4CorrectionMCF},
		{"gwp_ch4", f.GWPCH4},
		{"grid_emission_factor", f.GridFactor},
		{"chemicals.pac", f.Chemicals.PAC},
		{"chemicals.pam", f.Chemicals.PAM},
		{"chemicals.naclo", f.Chemicals.NaClO},
		{"energy_allocation.pretreatment", f.Allocation.Pretreatment},
		{"energy_allocation.biological", f.Allocation.Biological},
		{"energy_allocation.advanced", f.Allocation.Advanced},
		{"energy_allocation.sludge", f.Allocation.Sludge},
	}
	for _, s := range scalars {
		if s.v < 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidFactors, s.name, s.v)
		}
	}
	if s := f.Allocation.Sum(); math.Abs(s-1) > sumTolerance {
		return fmt.Errorf("%w: energy_allocation sums to %v, want 1", ErrInvalidFactors, s)
	}
	if len(f.Display) > 0 {
		seen := map[string]bool{}
		for _, z := range f.Display {
			if z.Zone == "" || seen[z.Zone] {
				return fmt.Errorf("%w: display_partition zone %q is empty or repeated", ErrInvalidFactors, z.Zone)
			}
			seen[z.Zone] = true
			if z.Fraction < 0 || z.Fraction > 1 || math.IsNaN(z.Fraction) {
				return fmt.Errorf("%w: display_partition %s must be within [0, 1], got %v", ErrInvalidFactors, z.Zone, z.Fraction)
			}
		}
	}
	return nil
}

func (f EmissionFactors) clone() EmissionFactors {
	out := f
	out.Display = append(DisplayPartition(nil), f.Display...)
	return out
}
