package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wwtp-carbon/internal/pipeline"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// RenderText writes a plain-text month report: summary, account statement,
// efficiency ranking, anomaly check and the what-if result.
func RenderText(w io.Writer, rep *pipeline.Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	s := rep.Summary
	b.WriteString(headingStyle.Render("Carbon account "+rep.Month) + "\n")
	p.Fprintf(&b, "  days            %d\n", s.Days)
	p.Fprintf(&b, "  treated water   %.0f m3\n", s.WaterM3)
	p.Fprintf(&b, "  electricity     %.0f kWh\n", s.ElectricityKWh)
	p.Fprintf(&b, "  total emissions %.2f kgCO2eq\n", s.TotalCO2eq)
	p.Fprintf(&b, "    direct N2O    %.2f\n", s.N2OCO2eq)
	p.Fprintf(&b, "    direct CH4    %.2f\n", s.CH4CO2eq)
	p.Fprintf(&b, "    energy        %.2f\n", s.EnergyCO2eq)
	p.Fprintf(&b, "    chemicals     %.2f\n", s.ChemicalsCO2eq)
	p.Fprintf(&b, "  intensity       %.4f kgCO2eq/m3\n", s.Intensity)
	p.Fprintf(&b, "  efficiency      %.2f m3/kgCO2eq\n\n", s.Efficiency)

	b.WriteString(headingStyle.Render("Account statement") + "\n")
	p.Fprintf(&b, "  %-14s %14s %14s %14s\n", "zone", "inflow", "outflow", "net")
	for _, l := range rep.Statement.Lines {
		p.Fprintf(&b, "  %-14s %14.2f %14.2f %14.2f\n", l.Zone, l.Inflow, l.Outflow, l.Net)
	}
	p.Fprintf(&b, "  %-14s %14.2f %14.2f %14.2f\n\n", "total", rep.Statement.TotalInflow, rep.Statement.TotalOutflow, rep.Statement.TotalNet)

	b.WriteString(headingStyle.Render("Efficiency ranking") + "\n")
	for i, z := range rep.Ranking.Zones {
		p.Fprintf(&b, "  %d. %-14s %10.2f m3/kgCO2eq\n", i+1, z.Zone, z.Efficiency)
	}
	p.Fprintf(&b, "  average %.2f\n\n", rep.Ranking.Average)

	b.WriteString(headingStyle.Render("Anomaly check") + "\n")
	a := rep.Anomaly
	switch {
	case !a.Checked:
		b.WriteString("  " + a.Reason + "\n")
	case a.IsAnomaly:
		b.WriteString("  " + warnStyle.Render(p.Sprintf("intensity %.4f exceeds history %.4f", a.CurrentIntensity, a.HistoryIntensity)) + "\n")
		p.Fprintf(&b, "  dominant zone %s (%.4f kgCO2eq/m3)\n", a.DominantZone, a.DominantIntensity)
		for _, sug := range a.Suggestions {
			b.WriteString("  - " + sug + "\n")
		}
	default:
		b.WriteString("  " + okStyle.Render(p.Sprintf("intensity %.4f is within range of history %.4f", a.CurrentIntensity, a.HistoryIntensity)) + "\n")
	}

	if o := rep.Optimization; o != nil && len(o.Effects) > 0 {
		b.WriteString("\n" + headingStyle.Render("What-if") + "\n")
		for _, e := range o.Effects {
			p.Fprintf(&b, "  %-10s %+.0f%%  %s %.2f -> %.2f\n", e.Measure, e.Percent, e.Zone, e.Before, e.After)
		}
		p.Fprintf(&b, "  total %.2f -> %.2f (reduction %.2f, %.2f%%)\n", o.Before, o.After, o.Reduction, o.ReductionRate*100)
	}

	if len(rep.Warnings) > 0 {
		b.WriteString("\n" + headingStyle.Render("Warnings") + "\n")
		for _, wn := range rep.Warnings {
			b.WriteString("  " + wn + "\n")
		}
	}
	if len(rep.Issues) > 0 {
		fmt.Fprintf(&b, "  %d input cells could not be read and count as zero\n", len(rep.Issues))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
