package analysis

import (
	"math"
	"sort"

	"wwtp-carbon/internal/model"
)

// DailyStats describes the spread of daily intensity (kgCO2eq/m3) within a
// month. Days without treated water are left out.
type DailyStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P05   float64 `json:"p05"`
	P95   float64 `json:"p95"`
}

func ComputeDailyStats(recs []model.EnrichedRecord) DailyStats {
	vals := make([]float64, 0, len(recs))
	for _, r := range recs {
		if r.TreatedWaterM3 <= 0 {
			continue
		}
		vals = append(vals, r.TotalCO2eq/r.TreatedWaterM3)
	}
	st := DailyStats{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}
	sort.Float64s(vals)
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	st.Min = vals[0]
	st.Max = vals[len(vals)-1]
	st.Mean = sum / float64(len(vals))
	st.P05 = percentileSorted(vals, 0.05)
	st.P95 = percentileSorted(vals, 0.95)
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
