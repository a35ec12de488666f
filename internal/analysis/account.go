package analysis

import "wwtp-carbon/internal/carbon"

// AccountLine is one zone of the carbon account statement. Inflow is the
// zone's share of purchased inputs, Outflow the emissions allocated to it.
type AccountLine struct {
	Zone    string  `json:"zone"`
	Inflow  float64 `json:"inflow_kg"`
	Outflow float64 `json:"outflow_kg"`
	Net     float64 `json:"net_kg"`
}

type Statement struct {
	Month        string        `json:"month"`
	Lines        []AccountLine `json:"lines"`
	TotalInflow  float64       `json:"total_inflow_kg"`
	TotalOutflow float64       `json:"total_outflow_kg"`
	TotalNet     float64       `json:"total_net_kg"`
}

// AccountStatement lists every display zone. The advanced zone's inflow also
// carries all chemical dosing.
func AccountStatement(s Summary, p carbon.DisplayPartition) Statement {
	st := Statement{Month: s.Month}
	for _, z := range p {
		in := s.EnergyCO2eq * z.Fraction
		if z.Zone == carbon.ZoneAdvanced {
			in += s.ChemicalsCO2eq
		}
		out := s.Zone(z.Zone)
		st.Lines = append(st.Lines, AccountLine{Zone: z.Zone, Inflow: in, Outflow: out, Net: out - in})
		st.TotalInflow += in
		st.TotalOutflow += out
		st.TotalNet += out - in
	}
	return st
}
