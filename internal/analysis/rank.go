package analysis

import (
	"sort"

	"github.com/samber/lo"
)

type ZoneEfficiency struct {
	Zone string `json:"zone"`
	// Efficiency is m3 treated per kgCO2eq attributed to the zone.
	Efficiency float64 `json:"efficiency"`
}

type Ranking struct {
	Zones   []ZoneEfficiency `json:"zones"`
	Average float64          `json:"average"`
}

// RankByEfficiency scores every zone by water treated per unit of its
// emissions and sorts descending. A zone scores 0 when either its emissions or
// the month's water volume is not positive.
func RankByEfficiency(s Summary) Ranking {
	out := make([]ZoneEfficiency, 0, len(s.Zones))
	for _, z := range s.Zones {
		e := 0.0
		if s.WaterM3 > 0 && z.CO2eq > 0 {
			e = s.WaterM3 / z.CO2eq
		}
		out = append(out, ZoneEfficiency{Zone: z.Zone, Efficiency: e})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Efficiency > out[j].Efficiency
	})
	r := Ranking{Zones: out}
	if len(out) > 0 {
		r.Average = lo.SumBy(out, func(z ZoneEfficiency) float64 { return z.Efficiency }) / float64(len(out))
	}
	return r
}
