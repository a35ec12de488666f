package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"wwtp-carbon/internal/model"
)

var ledgerHeader = []string{
	"date",
	"treated_water_m3",
	"electricity_kwh",
	"tn_in_mgl",
	"tn_out_mgl",
	"cod_in_mgl",
	"cod_out_mgl",
	"pac_kg",
	"pam_kg",
	"naclo_kg",
	"N2O_emission_kg",
	"N2O_CO2eq",
	"COD_removed_kg",
	"CH4_emission_kg",
	"CH4_CO2eq",
	"energy_CO2eq",
	"PAC_CO2eq",
	"PAM_CO2eq",
	"NaClO_CO2eq",
	"chemicals_CO2eq",
	"pretreatment_CO2eq",
	"biological_CO2eq",
	"advanced_CO2eq",
	"sludge_CO2eq",
	"total_CO2eq",
	"carbon_efficiency",
}

func WriteLedgerCSV(path string, recs []model.EnrichedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "ledger: create %s", path)
	}
	defer f.Close()
	if err := WriteLedger(f, recs); err != nil {
		return eris.Wrapf(err, "ledger: write %s", path)
	}
	return f.Close()
}

// WriteLedger writes one CSV row per enriched day.
func WriteLedger(out io.Writer, recs []model.EnrichedRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(ledgerHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			fmtDate(r.Date),
			fmtFloat(r.TreatedWaterM3),
			fmtFloat(r.ElectricityKWh),
			fmtFloat(r.TNInMgL),
			fmtFloat(r.TNOutMgL),
			fmtFloat(r.CODInMgL),
			fmtFloat(r.CODOutMgL),
			fmtFloat(r.PACKg),
			fmtFloat(r.PAMKg),
			fmtFloat(r.NaClOKg),
			fmtFloat(r.N2OEmissionKg),
			fmtFloat(r.N2OCO2eq),
			fmtFloat(r.CODRemovedKg),
			fmtFloat(r.CH4EmissionKg),
			fmtFloat(r.CH4CO2eq),
			fmtFloat(r.EnergyCO2eq),
			fmtFloat(r.PACCO2eq),
			fmtFloat(r.PAMCO2eq),
			fmtFloat(r.NaClOCO2eq),
			fmtFloat(r.ChemicalsCO2eq),
			fmtFloat(r.PretreatmentCO2eq),
			fmtFloat(r.BiologicalCO2eq),
			fmtFloat(r.AdvancedCO2eq),
			fmtFloat(r.SludgeCO2eq),
			fmtFloat(r.TotalCO2eq),
			fmtFloat(r.CarbonEfficiency),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
