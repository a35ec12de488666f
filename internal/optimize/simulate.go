package optimize

import (
	"fmt"

	"wwtp-carbon/internal/analysis"
)

// Setting is a measure at a chosen percentage. Positive values reduce the
// zone's emissions; negative values increase them.
type Setting struct {
	Measure Measure
	Percent float64
}

type Effect struct {
	Measure   string  `json:"measure"`
	Zone      string  `json:"zone"`
	Percent   float64 `json:"percent"`
	Before    float64 `json:"before_kg"`
	After     float64 `json:"after_kg"`
	Reduction float64 `json:"reduction_kg"`
}

type Result struct {
	Month  string  `json:"month"`
	Before float64 `json:"before_kg"`
	After  float64 `json:"after_kg"`
	// Reduction is Before minus After.
	Reduction float64 `json:"reduction_kg"`
	// ReductionRate is Reduction/Before, 0 when Before is not positive.
	ReductionRate float64  `json:"reduction_rate"`
	Effects       []Effect `json:"effects"`
}

// Simulate applies settings to a month summary. Each zone is scaled by
// (1 - percent/100) and the total drops by the change in those zones.
func Simulate(s analysis.Summary, settings ...Setting) (*Result, error) {
	res := &Result{Month: s.Month, Before: s.TotalCO2eq, After: s.TotalCO2eq}
	seen := map[string]bool{}
	for _, st := range settings {
		if st.Measure == nil {
			return nil, fmt.Errorf("measure is nil")
		}
		name := st.Measure.Name()
		if seen[name] {
			return nil, fmt.Errorf("measure %q given twice", name)
		}
		seen[name] = true
		lo, hi := st.Measure.Bounds()
		if st.Percent < lo || st.Percent > hi {
			return nil, fmt.Errorf("measure %q: %v%% outside [%v, %v]", name, st.Percent, lo, hi)
		}

		before := s.Zone(st.Measure.Zone())
		after := before * (1 - st.Percent/100)
		e := Effect{
			Measure:   name,
			Zone:      st.Measure.Zone(),
			Percent:   st.Percent,
			Before:    before,
			After:     after,
			Reduction: before - after,
		}
		res.Effects = append(res.Effects, e)
		res.After -= e.Reduction
	}
	res.Reduction = res.Before - res.After
	if res.Before > 0 {
		res.ReductionRate = res.Reduction / res.Before
	}
	return res, nil
}

// Levels is the convenience form used by the dashboard sliders.
func Levels(s analysis.Summary, aerationPct, pacPct float64) (*Result, error) {
	return Simulate(s,
		Setting{Measure: AerationMeasure{}, Percent: aerationPct},
		Setting{Measure: DosingMeasure{}, Percent: pacPct},
	)
}
