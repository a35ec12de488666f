package analysis

import (
	"github.com/samber/lo"

	"wwtp-carbon/internal/carbon"
)

type AnomalyConfig struct {
	// MinHistoryRows is the number of daily rows needed across all months
	// before a comparison is made.
	MinHistoryRows int `yaml:"min_history_rows" json:"min_history_rows"`
	// Ratio flags a month whose intensity exceeds Ratio times the history.
	Ratio float64 `yaml:"ratio" json:"ratio"`
}

func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{MinHistoryRows: 3, Ratio: 1.5}
}

type Anomaly struct {
	Checked bool   `json:"checked"`
	Reason  string `json:"reason,omitempty"`

	HistoryIntensity float64 `json:"history_intensity"`
	CurrentIntensity float64 `json:"current_intensity"`

	IsAnomaly         bool     `json:"is_anomaly"`
	DominantZone      string   `json:"dominant_zone,omitempty"`
	DominantIntensity float64  `json:"dominant_intensity,omitempty"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

// DetectAnomaly compares the current month's intensity (kgCO2eq/m3) against
// the volume-weighted intensity over history, which should include every
// loaded month. When flagged, the zone with the highest intensity is reported
// with suggested actions.
func DetectAnomaly(current Summary, history []Summary, cfg AnomalyConfig) Anomaly {
	rows := lo.SumBy(history, func(s Summary) int { return s.Days })
	if rows < cfg.MinHistoryRows {
		return Anomaly{Reason: "not enough data for an anomaly check"}
	}
	a := Anomaly{Checked: true}

	water := lo.SumBy(history, func(s Summary) float64 { return s.WaterM3 })
	if water > 0 {
		a.HistoryIntensity = lo.SumBy(history, func(s Summary) float64 { return s.TotalCO2eq }) / water
	}
	if current.WaterM3 > 0 {
		a.CurrentIntensity = current.TotalCO2eq / current.WaterM3
	}
	if a.HistoryIntensity <= 0 || a.CurrentIntensity <= cfg.Ratio*a.HistoryIntensity {
		return a
	}

	a.IsAnomaly = true
	if len(current.Zones) == 0 {
		return a
	}
	top := lo.MaxBy(current.Zones, func(x, best ZoneTotal) bool { return x.CO2eq > best.CO2eq })
	a.DominantZone = top.Zone
	a.DominantIntensity = top.CO2eq / current.WaterM3
	a.Suggestions = Suggestions(top.Zone)
	return a
}

// Suggestions returns canned operating advice for a zone.
func Suggestions(zone string) []string {
	switch zone {
	case carbon.ZoneBiological:
		return []string{
			"Check aeration efficiency and trim air supply",
			"Tune the sludge return ratio",
			"Watch influent quality for shock loads",
		}
	case carbon.ZoneAdvanced:
		return []string{
			"Reduce chemical overdosing",
			"Check mixing and reaction performance to raise chemical utilisation",
			"Evaluate lower-carbon alternative chemicals",
		}
	case carbon.ZonePretreatment:
		return []string{
			"Reduce screen run frequency",
			"Check pump efficiency and consider variable-frequency drives",
			"Tighten influent monitoring for coarse solids",
		}
	case carbon.ZoneEffluent, carbon.ZoneDeodorization:
		return []string{
			"Reduce disinfectant dosing",
			"Check disinfection contact time",
			"Consider UV disinfection as a lower-carbon option",
		}
	default:
		return []string{
			"Tune sludge dewatering parameters",
			"Check dewatering equipment efficiency",
			"Look into sludge reuse routes",
		}
	}
}
