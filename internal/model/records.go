package model

import (
	"strings"
	"time"
)

// DailyRecord is one day of plant operating data in canonical units.
// Units:
// - TreatedWaterM3: m3/d
// - ElectricityKWh: kWh/d
// - TN*/COD*: mg/L
// - PAC/PAM/NaClO: kg/d
type DailyRecord struct {
	Date           time.Time `json:"date"`
	TreatedWaterM3 float64   `json:"treated_water_m3"`
	ElectricityKWh float64   `json:"electricity_kwh"`
	TNInMgL        float64   `json:"tn_in_mgl"`
	TNOutMgL       float64   `json:"tn_out_mgl"`
	CODInMgL       float64   `json:"cod_in_mgl"`
	CODOutMgL      float64   `json:"cod_out_mgl"`
	PACKg          float64   `json:"pac_kg"`
	PAMKg          float64   `json:"pam_kg"`
	NaClOKg        float64   `json:"naclo_kg"`
}

// EnrichedRecord is a DailyRecord plus every field the carbon engine derives.
// All emission figures are kg CO2-equivalent unless the name says otherwise.
type EnrichedRecord struct {
	DailyRecord

	N2OEmissionKg float64 `json:"N2O_emission_kg"`
	N2OCO2eq      float64 `json:"N2O_CO2eq"`
	CODRemovedKg  float64 `json:"COD_removed_kg"`
	CH4EmissionKg float64 `json:"CH4_emission_kg"`
	CH4CO2eq      float64 `json:"CH4_CO2eq"`

	EnergyCO2eq    float64 `json:"energy_CO2eq"`
	PACCO2eq       float64 `json:"PAC_CO2eq"`
	PAMCO2eq       float64 `json:"PAM_CO2eq"`
	NaClOCO2eq     float64 `json:"NaClO_CO2eq"`
	ChemicalsCO2eq float64 `json:"chemicals_CO2eq"`

	PretreatmentCO2eq float64 `json:"pretreatment_CO2eq"`
	BiologicalCO2eq   float64 `json:"biological_CO2eq"`
	AdvancedCO2eq     float64 `json:"advanced_CO2eq"`
	SludgeCO2eq       float64 `json:"sludge_CO2eq"`
	TotalCO2eq        float64 `json:"total_CO2eq"`

	// CarbonEfficiency is m3 treated per kg CO2eq. When TotalCO2eq is 0 it
	// equals TreatedWaterM3 (divisor substituted with 1).
	CarbonEfficiency float64 `json:"carbon_efficiency"`
}

// FromRecords builds a canonical table with the date column and the nine
// numeric input columns.
func FromRecords(recs []DailyRecord) *Table {
	t := NewTable(len(recs))
	dates := make([]any, len(recs))
	for i, r := range recs {
		dates[i] = r.Date
	}
	_ = t.Set(FieldDate, dates)

	get := map[string]func(DailyRecord) float64{
		FieldVolume:      func(r DailyRecord) float64 { return r.TreatedWaterM3 },
		FieldElectricity: func(r DailyRecord) float64 { return r.ElectricityKWh },
		FieldTNIn:        func(r DailyRecord) float64 { return r.TNInMgL },
		FieldTNOut:       func(r DailyRecord) float64 { return r.TNOutMgL },
		FieldCODIn:       func(r DailyRecord) float64 { return r.CODInMgL },
		FieldCODOut:      func(r DailyRecord) float64 { return r.CODOutMgL },
		FieldPAC:         func(r DailyRecord) float64 { return r.PACKg },
		FieldPAM:         func(r DailyRecord) float64 { return r.PAMKg },
		FieldNaClO:       func(r DailyRecord) float64 { return r.NaClOKg },
	}
	for _, f := range NumericInputFields() {
		vals := make([]float64, len(recs))
		for i, r := range recs {
			vals[i] = get[f](r)
		}
		_ = t.SetFloats(f, vals)
	}
	return t
}

// Records projects the table back onto DailyRecord. Absent columns read as
// zero; the date column accepts time.Time or ISO text.
func (t *Table) Records() []DailyRecord {
	out := make([]DailyRecord, t.Len())
	for i := range out {
		out[i] = DailyRecord{
			Date:           t.Date(i),
			TreatedWaterM3: t.Float(FieldVolume, i),
			ElectricityKWh: t.Float(FieldElectricity, i),
			TNInMgL:        t.Float(FieldTNIn, i),
			TNOutMgL:       t.Float(FieldTNOut, i),
			CODInMgL:       t.Float(FieldCODIn, i),
			CODOutMgL:      t.Float(FieldCODOut, i),
			PACKg:          t.Float(FieldPAC, i),
			PAMKg:          t.Float(FieldPAM, i),
			NaClOKg:        t.Float(FieldNaClO, i),
		}
	}
	return out
}

// EnrichedRecords projects an enriched table onto EnrichedRecord.
func (t *Table) EnrichedRecords() []EnrichedRecord {
	base := t.Records()
	out := make([]EnrichedRecord, len(base))
	for i, r := range base {
		out[i] = EnrichedRecord{
			DailyRecord: r,

			N2OEmissionKg: t.Float(FieldN2OEmission, i),
			N2OCO2eq:      t.Float(FieldN2OCO2eq, i),
			CODRemovedKg:  t.Float(FieldCODRemoved, i),
			CH4EmissionKg: t.Float(FieldCH4Emission, i),
			CH4CO2eq:      t.Float(FieldCH4CO2eq, i),

			EnergyCO2eq:    t.Float(FieldEnergyCO2eq, i),
			PACCO2eq:       t.Float(FieldPACCO2eq, i),
			PAMCO2eq:       t.Float(FieldPAMCO2eq, i),
			NaClOCO2eq:     t.Float(FieldNaClOCO2eq, i),
			ChemicalsCO2eq: t.Float(FieldChemicalsCO2eq, i),

			PretreatmentCO2eq: t.Float(FieldPretreatmentCO2eq, i),
			BiologicalCO2eq:   t.Float(FieldBiologicalCO2eq, i),
			AdvancedCO2eq:     t.Float(FieldAdvancedCO2eq, i),
			SludgeCO2eq:       t.Float(FieldSludgeCO2eq, i),
			TotalCO2eq:        t.Float(FieldTotalCO2eq, i),
			CarbonEfficiency:  t.Float(FieldCarbonEfficiency, i),
		}
	}
	return out
}

// Date returns the date cell of a row, or the zero time if it is absent or
// cannot be read.
func (t *Table) Date(row int) time.Time {
	switch v := t.Value(FieldDate, row).(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if d, err := time.Parse(layout, s); err == nil {
				return d
			}
		}
	}
	return time.Time{}
}
