package optimize

import (
	"fmt"

	"wwtp-carbon/internal/carbon"
)

// Measure is an operating adjustment that scales one zone's emissions by a
// percentage within fixed bounds.
type Measure interface {
	Name() string
	Zone() string
	Bounds() (lo, hi float64)
}

// AerationMeasure shortens or lengthens aeration time, which scales the whole
// biological zone.
type AerationMeasure struct{}

func (AerationMeasure) Name() string               { return "aeration" }
func (AerationMeasure) Zone() string               { return carbon.ZoneBiological }
func (AerationMeasure) Bounds() (float64, float64) { return -30, 30 }

// DosingMeasure cuts or raises PAC dosing, which scales the advanced zone.
type DosingMeasure struct{}

func (DosingMeasure) Name() string               { return "pac_dosing" }
func (DosingMeasure) Zone() string               { return carbon.ZoneAdvanced }
func (DosingMeasure) Bounds() (float64, float64) { return -20, 20 }

// Measures lists the available measures in display order.
func Measures() []Measure {
	return []Measure{AerationMeasure{}, DosingMeasure{}}
}

// ByName looks up a measure.
func ByName(name string) (Measure, error) {
	for _, m := range Measures() {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown measure %q", name)
}
