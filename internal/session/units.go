package session

// ProcessUnit is one unit of the plant's process-flow diagram with the
// operator-editable parameters shown next to it. Concentrations and dosing are
// only meaningful for the units that use them.
type ProcessUnit struct {
	Name      string  `json:"name"`
	WaterFlow float64 `json:"water_flow_m3"`
	EnergyKWh float64 `json:"energy_kwh"`
	TNIn      float64 `json:"tn_in_mgl,omitempty"`
	TNOut     float64 `json:"tn_out_mgl,omitempty"`
	CODIn     float64 `json:"cod_in_mgl,omitempty"`
	CODOut    float64 `json:"cod_out_mgl,omitempty"`
	PACKg     float64 `json:"pac_kg,omitempty"`
	PAMKg     float64 `json:"pam_kg,omitempty"`
	// EmissionCO2eq is the operator's estimate for the unit in kgCO2eq/d.
	EmissionCO2eq float64 `json:"emission_co2eq_kg"`
	Enabled       bool    `json:"enabled"`
}

// UnitPatch carries the fields of a unit update; nil fields are left alone.
type UnitPatch struct {
	WaterFlow     *float64 `json:"water_flow_m3"`
	EnergyKWh     *float64 `json:"energy_kwh"`
	TNIn          *float64 `json:"tn_in_mgl"`
	TNOut         *float64 `json:"tn_out_mgl"`
	CODIn         *float64 `json:"cod_in_mgl"`
	CODOut        *float64 `json:"cod_out_mgl"`
	PACKg         *float64 `json:"pac_kg"`
	PAMKg         *float64 `json:"pam_kg"`
	EmissionCO2eq *float64 `json:"emission_co2eq_kg"`
	Enabled       *bool    `json:"enabled"`
}

func (p UnitPatch) apply(u ProcessUnit) ProcessUnit {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.WaterFlow, p.WaterFlow)
	set(&u.EnergyKWh, p.EnergyKWh)
	set(&u.TNIn, p.TNIn)
	set(&u.TNOut, p.TNOut)
	set(&u.CODIn, p.CODIn)
	set(&u.CODOut, p.CODOut)
	set(&u.PACKg, p.PACKg)
	set(&u.PAMKg, p.PAMKg)
	set(&u.EmissionCO2eq, p.EmissionCO2eq)
	if p.Enabled != nil {
		u.Enabled = *p.Enabled
	}
	return u
}

// DefaultUnits is the reference plant's fifteen process units in flow order.
func DefaultUnits() []ProcessUnit {
	return []ProcessUnit{
		{Name: "粗格栅", WaterFlow: 10000, EnergyKWh: 1500, EmissionCO2eq: 450, Enabled: true},
		{Name: "提升泵房", WaterFlow: 10000, EnergyKWh: 3500, EmissionCO2eq: 1050, Enabled: true},
		{Name: "细格栅", WaterFlow: 10000, EnergyKWh: 800, EmissionCO2eq: 240, Enabled: true},
		{Name: "曝气沉砂池", WaterFlow: 10000, EnergyKWh: 1200, EmissionCO2eq: 360, Enabled: true},
		{Name: "膜格栅", WaterFlow: 10000, EnergyKWh: 1000, EmissionCO2eq: 300, Enabled: true},
		{Name: "厌氧池", WaterFlow: 10000, EnergyKWh: 3000, TNIn: 40, TNOut: 30, CODIn: 200, CODOut: 180, EmissionCO2eq: 1200, Enabled: true},
		{Name: "缺氧池", WaterFlow: 10000, EnergyKWh: 3500, TNIn: 30, TNOut: 20, CODIn: 180, CODOut: 100, EmissionCO2eq: 1500, Enabled: true},
		{Name: "好氧池", WaterFlow: 10000, EnergyKWh: 5000, TNIn: 20, TNOut: 15, CODIn: 100, CODOut: 50, EmissionCO2eq: 1800, Enabled: true},
		{Name: "MBR膜池", WaterFlow: 10000, EnergyKWh: 4000, EmissionCO2eq: 1200, Enabled: true},
		{Name: "污泥处理车间", WaterFlow: 500, EnergyKWh: 2000, PAMKg: 100, EmissionCO2eq: 800, Enabled: true},
		{Name: "DF系统", WaterFlow: 10000, EnergyKWh: 2500, PACKg: 300, EmissionCO2eq: 1000, Enabled: true},
		{Name: "催化氧化", WaterFlow: 10000, EnergyKWh: 1800, EmissionCO2eq: 700, Enabled: true},
		{Name: "鼓风机房", WaterFlow: 0, EnergyKWh: 2500, EmissionCO2eq: 900, Enabled: true},
		{Name: "消毒接触池", WaterFlow: 10000, EnergyKWh: 1000, EmissionCO2eq: 400, Enabled: true},
		{Name: "除臭系统", WaterFlow: 0, EnergyKWh: 1800, EmissionCO2eq: 600, Enabled: true},
	}
}
