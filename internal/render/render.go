// Package render turns a parse result into the human-readable summary
// formats: Markdown, and HTML rendered from that Markdown.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/solardesk/pvtopo/internal/report"
)

// Markdown renders the topology summary. Sections with no data are omitted
// so a sparse parse still reads cleanly.
func Markdown(res *report.Result) string {
	var b strings.Builder

	b.WriteString("# PV Plant Topology\n\n")

	md := res.Metadata
	fmt.Fprintf(&b, "- Arrays: %d\n", md.TotalArrays)
	fmt.Fprintf(&b, "- Inverters: %d\n", md.TotalInverters)
	fmt.Fprintf(&b, "- Expanded inverter/MPPT combinations: %d\n", md.TotalExpandedCombinations)
	fmt.Fprintf(&b, "- System modules: %d\n", md.TotalSystemModules)
	fmt.Fprintf(&b, "- System capacity: %.1f kWp\n", md.TotalSystemCapacityKWp)
	if md.TotalAnnualProductionKWh > 0 {
		fmt.Fprintf(&b, "- Annual production: %.0f kWh\n", md.TotalAnnualProductionKWh)
	}
	b.WriteString("\n")

	if !res.PVModule.Empty() || !res.Inverter.Empty() {
		b.WriteString("## Equipment\n\n")
		writeEquipment(&b, "PV module", res.PVModule)
		writeEquipment(&b, "Inverter", res.Inverter)
		b.WriteString("\n")
	}

	if len(res.InverterSummary) > 0 {
		b.WriteString("## Inverters\n\n")
		for _, inv := range sortedKeys(res.InverterSummary) {
			sum := res.InverterSummary[inv]
			fmt.Fprintf(&b, "### %s\n\n", sum.DisplayName)
			fmt.Fprintf(&b, "- Capacity: %.1f kWp\n", sum.CapacityKWp)
			fmt.Fprintf(&b, "- Modules: %d\n", sum.Modules)
			if sum.AnnualProductionKWh > 0 {
				fmt.Fprintf(&b, "- Annual production: %.0f kWh\n", sum.AnnualProductionKWh)
			}
			if sum.SpecificYieldKWhPerKWp > 0 {
				fmt.Fprintf(&b, "- Specific yield: %.0f kWh/kWp\n", sum.SpecificYieldKWhPerKWp)
			}
			for _, row := range sum.CombinedConfiguration {
				line := fmt.Sprintf("- %s: array %s, %d strings, %d modules", row.MPPT, row.ConfigID, row.Strings, row.Modules)
				if row.DCKWp != nil {
					line += fmt.Sprintf(", %.3f kWp", *row.DCKWp)
				}
				if row.TiltDeg != nil && row.AzimuthCompassDeg != nil {
					line += fmt.Sprintf(", tilt %.0f° az %.0f°", *row.TiltDeg, *row.AzimuthCompassDeg)
				}
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(res.SystemMonthlyProduction) > 0 {
		b.WriteString("## Monthly production (kWh)\n\n")
		for _, mv := range res.SystemMonthlyProduction {
			fmt.Fprintf(&b, "- %s: %.0f\n", mv.Month, mv.Value)
		}
		b.WriteString("\n")
	}

	if len(res.Orientations) > 0 {
		b.WriteString("## Orientations\n\n")
		for _, id := range sortedKeys(res.Orientations) {
			o := res.Orientations[id]
			line := fmt.Sprintf("- Orientation #%s", id)
			if o.TiltDeg != nil {
				line += fmt.Sprintf(": tilt %.1f°", *o.TiltDeg)
			}
			if o.AzimuthCompassDeg != nil {
				line += fmt.Sprintf(", azimuth %.1f° compass", *o.AzimuthCompassDeg)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(res.ArrayLosses) > 0 {
		b.WriteString("## Array losses\n\n")
		for _, key := range sortedKeys(res.ArrayLosses) {
			fmt.Fprintf(&b, "- %s: %v\n", key, res.ArrayLosses[key])
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders the Markdown summary to HTML.
func HTML(res *report.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(Markdown(res)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEquipment(b *strings.Builder, label string, e report.EquipmentInfo) {
	if e.Empty() {
		return
	}
	parts := []string{}
	if e.Manufacturer != "" {
		parts = append(parts, e.Manufacturer)
	}
	if e.Model != "" {
		parts = append(parts, e.Model)
	}
	if e.UnitNomPowerRaw != "" {
		parts = append(parts, e.UnitNomPowerRaw)
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, " "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
