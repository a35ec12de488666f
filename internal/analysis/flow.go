package analysis

import (
	"github.com/samber/lo"

	"wwtp-carbon/internal/carbon"
)

// Flow node names for inputs and emission sinks. Zone nodes use the zone names.
const (
	NodeElectricity = "electricity"
	NodePAC         = "pac"
	NodePAM         = "pam"
	NodeNaClO       = "naclo"
	NodeN2O         = "n2o"
	NodeCH4         = "ch4"
)

type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph traces CO2eq from inputs through zones to direct-emission sinks.
type FlowGraph struct {
	Nodes []string   `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// CarbonFlow builds the flow graph for a month. Electricity is split across
// the display partition, every chemical flows into the advanced zone and
// direct emissions leave the biological zone. Links without a positive value
// are dropped.
func CarbonFlow(s Summary, p carbon.DisplayPartition) FlowGraph {
	nodes := []string{NodeElectricity, NodePAC, NodePAM, NodeNaClO}
	nodes = append(nodes, p.Zones()...)
	nodes = append(nodes, NodeN2O, NodeCH4)

	links := make([]FlowLink, 0, len(p)+5)
	for _, z := range p {
		links = append(links, FlowLink{Source: NodeElectricity, Target: z.Zone, Value: s.EnergyCO2eq * z.Fraction})
	}
	links = append(links,
		FlowLink{Source: NodePAC, Target: carbon.ZoneAdvanced, Value: s.PACCO2eq},
		FlowLink{Source: NodePAM, Target: carbon.ZoneAdvanced, Value: s.PAMCO2eq},
		FlowLink{Source: NodeNaClO, Target: carbon.ZoneAdvanced, Value: s.NaClOCO2eq},
		FlowLink{Source: carbon.ZoneBiological, Target: NodeN2O, Value: s.N2OCO2eq},
		FlowLink{Source: carbon.ZoneBiological, Target: NodeCH4, Value: s.CH4CO2eq},
	)
	return FlowGraph{
		Nodes: nodes,
		Links: lo.Filter(links, func(l FlowLink, _ int) bool { return l.Value > 0 }),
	}
}
