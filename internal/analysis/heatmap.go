package analysis

// HeatCell is one zone of the emission heat map. Scale is the min-max
// normalized position in [0,1].
type HeatCell struct {
	Zone  string  `json:"zone"`
	CO2eq float64 `json:"co2eq_kg"`
	Scale float64 `json:"scale"`
}

// Heatmap normalizes zone totals; when every zone is equal each cell sits at
// the middle of the scale.
func Heatmap(s Summary) []HeatCell {
	if len(s.Zones) == 0 {
		return nil
	}
	minv, maxv := s.Zones[0].CO2eq, s.Zones[0].CO2eq
	for _, z := range s.Zones[1:] {
		minv = min(minv, z.CO2eq)
		maxv = max(maxv, z.CO2eq)
	}
	out := make([]HeatCell, len(s.Zones))
	for i, z := range s.Zones {
		scale := 0.5
		if maxv > minv {
			scale = (z.CO2eq - minv) / (maxv - minv)
		}
		out[i] = HeatCell{Zone: z.Zone, CO2eq: z.CO2eq, Scale: scale}
	}
	return out
}
