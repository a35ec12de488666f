package analysis

import (
	"github.com/samber/lo"

	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/model"
)

// ZoneTotal is the summed emission of one zone over a period.
type ZoneTotal struct {
	Zone  string  `json:"zone"`
	CO2eq float64 `json:"co2eq_kg"`
}

// Summary is the column-sum view of one enriched month.
type Summary struct {
	Month string `json:"month"`
	Days  int    `json:"days"`

	WaterM3        float64 `json:"water_m3"`
	ElectricityKWh float64 `json:"electricity_kwh"`

	N2OCO2eq       float64 `json:"n2o_co2eq_kg"`
	CH4CO2eq       float64 `json:"ch4_co2eq_kg"`
	EnergyCO2eq    float64 `json:"energy_co2eq_kg"`
	PACCO2eq       float64 `json:"pac_co2eq_kg"`
	PAMCO2eq       float64 `json:"pam_co2eq_kg"`
	NaClOCO2eq     float64 `json:"naclo_co2eq_kg"`
	ChemicalsCO2eq float64 `json:"chemicals_co2eq_kg"`

	// Zones holds the four accounting zones followed by the display-only
	// sub-zones, whose totals are energy shares.
	Zones      []ZoneTotal `json:"zones"`
	TotalCO2eq float64     `json:"total_co2eq_kg"`

	// Intensity is kgCO2eq per m3, 0 when no water was treated.
	Intensity float64 `json:"intensity_kg_per_m3"`
	// Efficiency is m3 per kgCO2eq with the engine's zero-total convention.
	Efficiency float64 `json:"efficiency_m3_per_kg"`
}

// Zone returns a zone total, or 0 if the zone is unknown.
func (s Summary) Zone(name string) float64 {
	for _, z := range s.Zones {
		if z.Zone == name {
			return z.CO2eq
		}
	}
	return 0
}

// Summarize sums an enriched table. p supplies the display sub-zones.
func Summarize(month string, t *model.Table, p carbon.DisplayPartition) Summary {
	recs := t.EnrichedRecords()
	sum := func(f func(model.EnrichedRecord) float64) float64 { return lo.SumBy(recs, f) }

	s := Summary{
		Month: month,
		Days:  len(recs),

		WaterM3:        sum(func(r model.EnrichedRecord) float64 { return r.TreatedWaterM3 }),
		ElectricityKWh: sum(func(r model.EnrichedRecord) float64 { return r.ElectricityKWh }),

		N2OCO2eq:       sum(func(r model.EnrichedRecord) float64 { return r.N2OCO2eq }),
		CH4CO2eq:       sum(func(r model.EnrichedRecord) float64 { return r.CH4CO2eq }),
		EnergyCO2eq:    sum(func(r model.EnrichedRecord) float64 { return r.EnergyCO2eq }),
		PACCO2eq:       sum(func(r model.EnrichedRecord) float64 { return r.PACCO2eq }),
		PAMCO2eq:       sum(func(r model.EnrichedRecord) float64 { return r.PAMCO2eq }),
		NaClOCO2eq:     sum(func(r model.EnrichedRecord) float64 { return r.NaClOCO2eq }),
		ChemicalsCO2eq: sum(func(r model.EnrichedRecord) float64 { return r.ChemicalsCO2eq }),

		TotalCO2eq: sum(func(r model.EnrichedRecord) float64 { return r.TotalCO2eq }),
	}

	s.Zones = []ZoneTotal{
		{Zone: carbon.ZonePretreatment, CO2eq: sum(func(r model.EnrichedRecord) float64 { return r.PretreatmentCO2eq })},
		{Zone: carbon.ZoneBiological, CO2eq: sum(func(r model.EnrichedRecord) float64 { return r.BiologicalCO2eq })},
		{Zone: carbon.ZoneAdvanced, CO2eq: sum(func(r model.EnrichedRecord) float64 { return r.AdvancedCO2eq })},
		{Zone: carbon.ZoneSludge, CO2eq: sum(func(r model.EnrichedRecord) float64 { return r.SludgeCO2eq })},
	}
	primary := carbon.PrimaryZones()
	for _, z := range p {
		if lo.Contains(primary, z.Zone) {
			continue
		}
		s.Zones = append(s.Zones, ZoneTotal{Zone: z.Zone, CO2eq: s.EnergyCO2eq * z.Fraction})
	}

	if s.WaterM3 > 0 {
		s.Intensity = s.TotalCO2eq / s.WaterM3
	}
	div := s.TotalCO2eq
	if div == 0 {
		div = 1
	}
	s.Efficiency = s.WaterM3 / div
	return s
}

// PrimaryTotal is the sum of the four accounting zones. It equals TotalCO2eq
// to floating-point tolerance.
func (s Summary) PrimaryTotal() float64 {
	t := 0.0
	for _, z := range carbon.PrimaryZones() {
		t += s.Zone(z)
	}
	return t
}
