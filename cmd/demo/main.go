package main

import (
	"flag"
	"fmt"
	"time"

	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/config"
	"wwtp-carbon/internal/model"
	"wwtp-carbon/internal/report"
)

// Demo:
// - Build one reference day of plant data
// - Run the three calculators with the configured factors
// - Print every derived field so the arithmetic can be checked by hand
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	days := flag.Int("days", 1, "Number of identical days to simulate")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	factors := carbon.DefaultFactors()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		factors = cfg.Factors
	}
	engine, err := carbon.New(factors)
	if err != nil {
		panic(err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]model.DailyRecord, max(*days, 1))
	for i := range recs {
		recs[i] = model.DailyRecord{
			Date:           start.AddDate(0, 0, i),
			TreatedWaterM3: 10000,
			ElectricityKWh: 5000,
			TNInMgL:        40,
			TNOutMgL:       30,
			CODInMgL:       200,
			CODOutMgL:      180,
			PACKg:          300,
		}
	}

	out, err := engine.Enrich(recs)
	if err != nil {
		panic(err)
	}

	r := out[0]
	fmt.Printf("Reference day %s: %.0f m3, %.0f kWh, TN %.0f->%.0f mg/L, COD %.0f->%.0f mg/L, PAC %.0f kg\n\n",
		r.Date.Format("2006-01-02"), r.TreatedWaterM3, r.ElectricityKWh,
		r.TNInMgL, r.TNOutMgL, r.CODInMgL, r.CODOutMgL, r.PACKg)

	fmt.Println("direct")
	fmt.Printf("  N2O emission   %12.4f kg   -> %10.4f kgCO2eq\n", r.N2OEmissionKg, r.N2OCO2eq)
	fmt.Printf("  COD removed    %12.4f kg\n", r.CODRemovedKg)
	fmt.Printf("  CH4 emission   %12.4f kg   -> %10.4f kgCO2eq\n", r.CH4EmissionKg, r.CH4CO2eq)
	fmt.Println("indirect")
	fmt.Printf("  energy         %12.4f kgCO2eq\n", r.EnergyCO2eq)
	fmt.Printf("  PAC/PAM/NaClO  %.4f / %.4f / %.4f kgCO2eq\n", r.PACCO2eq, r.PAMCO2eq, r.NaClOCO2eq)
	fmt.Printf("  chemicals      %12.4f kgCO2eq\n", r.ChemicalsCO2eq)
	fmt.Println("zones")
	fmt.Printf("  pretreatment   %12.4f\n", r.PretreatmentCO2eq)
	fmt.Printf("  biological     %12.4f\n", r.BiologicalCO2eq)
	fmt.Printf("  advanced       %12.4f\n", r.AdvancedCO2eq)
	fmt.Printf("  sludge         %12.4f\n", r.SludgeCO2eq)
	fmt.Printf("\nTotal %.4f kgCO2eq, efficiency %.4f m3/kgCO2eq\n", r.TotalCO2eq, r.CarbonEfficiency)

	if *outCSV != "" {
		if err := report.WriteLedgerCSV(*outCSV, out); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}
