package report

import (
	"fmt"
	"strings"
)

// inverterTopology describes one known inverter family. Lookup is by
// case-insensitive substring on manufacturer and model, so report wording
// variants ("Sunny Tripower_Core1 62-US-41") still resolve. New families
// are added as rows, not branches.
type inverterTopology struct {
	ManufacturerSub   string
	ModelSub          string
	MPPTPerInverter   int
	StringsPerMPPTMax int
}

var inverterTopologies = []inverterTopology{
	{"sma", "tripower", 6, 2},
	{"huawei", "sun2000", 4, 2},
}

// lookupTopology resolves the MPPT layout for the plant's inverter family.
// Unknown families collapse to a single MPPT absorbing every string.
func lookupTopology(inverter EquipmentInfo, totalStrings int) (mpptPerInverter, stringsPerMPPTMax int) {
	manu := strings.ToLower(inverter.Manufacturer)
	model := strings.ToLower(inverter.Model)
	for _, t := range inverterTopologies {
		if strings.Contains(manu, t.ManufacturerSub) || strings.Contains(model, t.ManufacturerSub) {
			if strings.Contains(model, t.ModelSub) {
				return t.MPPTPerInverter, t.StringsPerMPPTMax
			}
		}
	}
	return 1, totalStrings
}

// InferSingleConfig derives a plausible plant topology when the report has
// no "Array #" markers at all. It requires the document to contain the
// "PV Array Characteristics" section plus a plant-wide module count, an
// inverter unit count and a "Modules S string(s) x M In series" line;
// otherwise it returns nil.
//
// The required inverter count is ceil(strings / (mppt_per_inverter *
// strings_per_mppt_max)). When the report states more units than required,
// the requirement wins: the stated count is an upper bound that may include
// unused or reserve inverters. This heuristic is deliberate; changing it
// changes the resulting topology materially.
func InferSingleConfig(text string, module, inverter EquipmentInfo) *ArrayConfig {
	if !strings.Contains(strings.ToLower(text), "pv array characteristics") {
		return nil
	}

	mods := totalModulesPattern.FindStringSubmatch(text)
	units := inverterUnitsPattern.FindStringSubmatch(text)
	cfgLine := modulesInSeriesSignal.FindStringSubmatch(text)
	if mods == nil || units == nil || cfgLine == nil {
		return nil
	}

	totalModules, ok := parseIntStr(mods[1])
	if !ok {
		return nil
	}
	statedUnits, ok := parseFloatStr(units[1])
	if !ok || statedUnits < 1 {
		return nil
	}
	totalStrings, ok1 := parseIntStr(cfgLine[1])
	series, ok2 := parseIntStr(cfgLine[2])
	if !ok1 || !ok2 || totalStrings < 1 {
		return nil
	}

	mpptPerInv, stringsPerMPPT := lookupTopology(inverter, totalStrings)

	perInverter := mpptPerInv * stringsPerMPPT
	required := (totalStrings + perInverter - 1) / perInverter
	inverters := int(statedUnits)
	if inverters > required {
		inverters = required
	}

	cfg := &ArrayConfig{
		ID:              "1",
		NumberOfModules: totalModules,
		Strings:         totalStrings,
		ModulesInSeries: series,

		InferredSingleConfig: true,
		Inference: &InferenceParams{
			MPPTPerInverter:   mpptPerInv,
			StringsPerMPPTMax: stringsPerMPPT,
			RequiredInverters: required,
			StatedInverters:   int(statedUnits),
			TotalStrings:      totalStrings,
		},
	}
	for i := 1; i <= inverters; i++ {
		cfg.InverterIDs = append(cfg.InverterIDs, fmt.Sprintf("INV%02d", i))
	}
	for i := 1; i <= mpptPerInv; i++ {
		cfg.MPPTIDs = append(cfg.MPPTIDs, fmt.Sprintf("MPPT %d", i))
	}

	if module.UnitNomPowerW != nil && totalModules > 0 {
		kwp := float64(*module.UnitNomPowerW) * float64(totalModules) / 1000.0
		cfg.NominalSTCKWpFromModule = floatPtr(round3(kwp))
	}

	return cfg
}
