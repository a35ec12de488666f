package model

// Canonical input field names. The ingestion layer maps plant-specific headers
// onto these; the engine only checks presence by name.
const (
	FieldDate        = "date"
	FieldVolume      = "treated_water_m3"
	FieldElectricity = "electricity_kwh"
	FieldTNIn        = "tn_in_mgl"
	FieldTNOut       = "tn_out_mgl"
	FieldCODIn       = "cod_in_mgl"
	FieldCODOut      = "cod_out_mgl"
	FieldPAC         = "pac_kg"
	FieldPAM         = "pam_kg"
	FieldNaClO       = "naclo_kg"
)

// Derived field names written by the carbon calculators.
const (
	FieldN2OEmission = "N2O_emission_kg"
	FieldN2OCO2eq    = "N2O_CO2eq"
	FieldCODRemoved  = "COD_removed_kg"
	FieldCH4Emission = "CH4_emission_kg"
	FieldCH4CO2eq    = "CH4_CO2eq"

	FieldEnergyCO2eq    = "energy_CO2eq"
	FieldPACCO2eq       = "PAC_CO2eq"
	FieldPAMCO2eq       = "PAM_CO2eq"
	FieldNaClOCO2eq     = "NaClO_CO2eq"
	FieldChemicalsCO2eq = "chemicals_CO2eq"

	FieldPretreatmentCO2eq = "pretreatment_CO2eq"
	FieldBiologicalCO2eq   = "biological_CO2eq"
	FieldAdvancedCO2eq     = "advanced_CO2eq"
	FieldSludgeCO2eq       = "sludge_CO2eq"
	FieldTotalCO2eq        = "total_CO2eq"
	FieldCarbonEfficiency  = "carbon_efficiency"
)

// NumericInputFields lists the nine numeric DailyRecord fields in table order.
func NumericInputFields() []string {
	return []string{
		FieldVolume,
		FieldElectricity,
		FieldTNIn,
		FieldTNOut,
		FieldCODIn,
		FieldCODOut,
		FieldPAC,
		FieldPAM,
		FieldNaClO,
	}
}

// DerivedFields lists every field the full pipeline adds, in the order the
// calculators produce them.
func DerivedFields() []string {
	return []string{
		FieldN2OEmission,
		FieldN2OCO2eq,
		FieldCODRemoved,
		FieldCH4Emission,
		FieldCH4CO2eq,
		FieldEnergyCO2eq,
		FieldPACCO2eq,
		FieldPAMCO2eq,
		FieldNaClOCO2eq,
		FieldChemicalsCO2eq,
		FieldPretreatmentCO2eq,
		FieldBiologicalCO2eq,
		FieldAdvancedCO2eq,
		FieldSludgeCO2eq,
		FieldTotalCO2eq,
		FieldCarbonEfficiency,
	}
}
