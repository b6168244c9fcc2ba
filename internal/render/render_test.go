package render

import (
	"strings"
	"testing"

	"github.com/solardesk/pvtopo/internal/report"
)

func sampleResult() *report.Result {
	return &report.Result{
		Metadata: report.Metadata{
			TotalArrays:               2,
			TotalInverters:            3,
			TotalExpandedCombinations: 6,
			TotalSystemModules:        1080,
			TotalSystemCapacityKWp:    583.2,
			TotalAnnualProductionKWh:  103025,
		},
		PVModule: report.EquipmentInfo{Manufacturer: "Longi Solar", Model: "LR5-72HBD-540M", UnitNomPowerRaw: "540 Wp"},
		Inverter: report.EquipmentInfo{Manufacturer: "SMA", Model: "Sunny Tripower"},
		InverterSummary: map[string]report.InverterSummary{
			"INV01": {
				DisplayName: "INV01 (Sunny Tripower)",
				CapacityKWp: 388.8,
				Modules:     720,
				CombinedConfiguration: []report.CombinedMPPT{
					{MPPT: "MPPT 1", ConfigID: "1", Strings: 20, Modules: 360},
				},
			},
		},
		SystemMonthlyProduction: report.MonthlySeries{
			{Month: "January", Value: 34807},
		},
		ArrayLosses: map[string]float64{"soiling_loss_percent": 3},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"# PV Plant Topology",
		"- Arrays: 2",
		"- System capacity: 583.2 kWp",
		"- PV module: Longi Solar LR5-72HBD-540M 540 Wp",
		"### INV01 (Sunny Tripower)",
		"- MPPT 1: array 1, 20 strings, 360 modules",
		"- January: 34807",
		"- soiling_loss_percent: 3",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownSparse(t *testing.T) {
	md := Markdown(&report.Result{})
	if strings.Contains(md, "## Inverters") || strings.Contains(md, "## Equipment") {
		t.Errorf("empty sections must be omitted:\n%s", md)
	}
	if !strings.Contains(md, "- Arrays: 0") {
		t.Errorf("metadata header missing:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleResult())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "PV Plant Topology") {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<li>") {
		t.Errorf("missing list items: %s", html)
	}
}
