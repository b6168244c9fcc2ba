package report

import (
	"regexp"
	"sort"
	"strings"
)

// PageText is the input contract from the page-text provider: one page of
// already-extracted report text.
type PageText struct {
	Page int
	Text string
}

var (
	arrayMarkerPattern = regexp.MustCompile(`(?i)Array\s*#\s*(\d+)`)
	arrayStopPattern   = regexp.MustCompile(`(?i)AC wiring losses|Page \d+/\d+`)

	// Pages carrying array characteristics, across report-generator
	// versions.
	arrayPagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)PV Array Characteristics`),
		arrayMarkerPattern,
		regexp.MustCompile(`(?i)PV Modules`),
		regexp.MustCompile(`(?i)Module Configuration`),
	}

	// The positive signal that a block is a real array body and not a
	// stray "Array #n" mention in an unrelated section.
	modulesSignalPattern = regexp.MustCompile(`(?i)Modules\s+\d+\s+string`)

	invMPPTHeaderPattern  = regexp.MustCompile(`(?i)INV\s*(.+?)\s*MPPT`)
	invSinglePattern      = regexp.MustCompile(`(?i)INV\s*([A-Za-z]*)(\d+)`)
	mpptHeaderPattern     = regexp.MustCompile(`(?i)MPPT[#\s]*([0-9,\-\s]+)`)
	mpptCountPattern      = regexp.MustCompile(`(?i)Number of inverters\s*(\d+)\s*\*\s*MPPT\s*([\d.]+)%\s*([\d.]+)\s*unit`)
	pvModuleCountPattern  = regexp.MustCompile(`(?i)Number of PV modules\s*(\d+)\s*units?`)
	modulesConfigPattern  = regexp.MustCompile(`(?i)Modules\s*(\d+)\s*string[s]?\s*x\s*(\d+)`)
	nominalSTCPattern     = regexp.MustCompile(`(?i)Nominal\s*\(STC\)\s*([\d.]+)\s*kWp`)
	umppPattern           = regexp.MustCompile(`(?i)U mpp\s*([\d.]+)\s*V`)
	imppPattern           = regexp.MustCompile(`(?i)I mpp\s*([\d.]+)\s*A`)
	embeddedEquipPattern  = regexp.MustCompile(`(?is)PV\s+module\b.{0,400}?Inverter`)
	totalModulesPattern   = regexp.MustCompile(`(?i)Nb\.\s*of\s*modules\s*(\d+)\s*units?`)
	inverterUnitsPattern  = regexp.MustCompile(`(?i)Nb\.\s*of\s*units\s*([\d.]+)`)
	modulesInSeriesSignal = regexp.MustCompile(`(?i)Modules\s*(\d+)\s*string[s]?\s*x\s*(\d+)\s*In series`)
)

// equipContext is the read-only session state the block parser needs: the
// global module rating used to derive array STC power. Passed explicitly so
// block parsing stays order-independent and testable.
type equipContext struct {
	ModuleUnitPowerW *int
}

// ParseArrays locates the contiguous page range holding array
// characteristics, splits it into per-array blocks and parses each block
// into an ArrayConfig. Blocks without a "Modules N string(s) x M" line are
// rejected as noise; a later block repeating an already-seen id is skipped
// (PVsyst repeats array headers in summary sections).
func ParseArrays(pages []PageText, module EquipmentInfo) map[string]*ArrayConfig {
	blob := arrayPageBlob(pages)
	if blob == "" {
		return map[string]*ArrayConfig{}
	}

	ctx := equipContext{ModuleUnitPowerW: module.UnitNomPowerW}
	arrays := make(map[string]*ArrayConfig)

	// Equipment specs interleaved between array listings carry over to the
	// blocks that follow; the accumulator is threaded through the loop.
	var pending *EquipmentInfo

	order := 0
	for _, blk := range splitArrayBlocks(blob) {
		if !modulesSignalPattern.MatchString(blk.text) {
			continue
		}
		if _, seen := arrays[blk.id]; seen {
			continue
		}

		body, trailing := sliceEmbeddedEquipment(blk.text)

		cfg := parseArrayBlock(body, blk.id, ctx)
		cfg.order = order
		order++

		if trailing == nil && pending != nil && len(cfg.InverterIDs) > 0 {
			cfg.InverterOverride = pending
		}
		if trailing != nil {
			pending = trailing
		}

		arrays[blk.id] = cfg
	}
	return arrays
}

// ArraysInOrder returns the configs sorted by discovery order.
func ArraysInOrder(arrays map[string]*ArrayConfig) []*ArrayConfig {
	out := make([]*ArrayConfig, 0, len(arrays))
	for _, cfg := range arrays {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// arrayPageBlob concatenates the contiguous page range from the first to
// the last page that looks like array characteristics. Arrays are assumed
// not to be interleaved with unrelated pages.
func arrayPageBlob(pages []PageText) string {
	first, last := -1, -1
	for i, p := range pages {
		for _, re := range arrayPagePatterns {
			if re.MatchString(p.Text) {
				if first < 0 {
					first = i
				}
				last = i
				break
			}
		}
	}
	if first < 0 {
		return ""
	}
	var parts []string
	for _, p := range pages[first : last+1] {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

type arrayBlock struct {
	id   string
	text string
}

// splitArrayBlocks cuts the blob into candidate blocks, each running from
// one "Array #n" marker up to the next array marker, an "AC wiring losses"
// marker, a page footer, or end of text. RE2 has no lookahead, so the
// boundaries are resolved by scanning marker positions directly.
func splitArrayBlocks(blob string) []arrayBlock {
	starts := arrayMarkerPattern.FindAllStringSubmatchIndex(blob, -1)
	if len(starts) == 0 {
		return nil
	}
	stops := arrayStopPattern.FindAllStringIndex(blob, -1)

	var blocks []arrayBlock
	for i, loc := range starts {
		start := loc[0]
		end := len(blob)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		for _, s := range stops {
			if s[0] > start && s[0] < end {
				end = s[0]
				break
			}
		}
		blocks = append(blocks, arrayBlock{
			id:   blob[loc[2]:loc[3]],
			text: blob[start:end],
		})
	}
	return blocks
}

// sliceEmbeddedEquipment detects a "PV module ... Inverter" sub-block
// trailing an array body, cuts it off and parses it with the same
// two-column grammar as the global equipment block. The inverter column is
// returned as the pending type for subsequent arrays.
func sliceEmbeddedEquipment(block string) (body string, inverterType *EquipmentInfo) {
	loc := embeddedEquipPattern.FindStringIndex(block)
	if loc == nil {
		return block, nil
	}
	_, inv := parseEquipmentBlock(block[loc[0]:])
	if inv.Empty() {
		return block, nil
	}
	return block[:loc[0]], &inv
}

// parseArrayBlock parses one array body. Every field is optional: a missed
// pattern leaves the field absent, never fails the block.
func parseArrayBlock(block, id string, ctx equipContext) *ArrayConfig {
	cfg := &ArrayConfig{ID: id, blockText: block}

	header := block
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		header = block[:i]
	}

	// Inverter ids: prefer the "INV <free text> MPPT" form, whose free
	// text goes through the range expander; otherwise fall back to the
	// first bare INVxx token.
	if m := invMPPTHeaderPattern.FindStringSubmatch(header); m != nil {
		cfg.InverterIDs = ExpandInverterRange(m[1])
	}
	if len(cfg.InverterIDs) == 0 {
		if m := invSinglePattern.FindStringSubmatch(header); m != nil {
			cfg.InverterIDs = ExpandInverterRange(m[1] + m[2])
		}
	}

	if m := mpptHeaderPattern.FindStringSubmatch(header); m != nil {
		cfg.MPPTIDs = ExpandMPPTRange(m[1])
	}

	// "Number of inverters T * MPPT p% f unit": T is the total MPPT count
	// across all listed inverters, so the per-inverter count divides by
	// the inverter count (integer division, a reporting convention).
	if m := mpptCountPattern.FindStringSubmatch(block); m != nil {
		if total, ok := parseIntStr(m[1]); ok {
			n := len(cfg.InverterIDs)
			if n < 1 {
				n = 1
			}
			cfg.MPPTCount = total / n
		}
		if v, ok := parseFloatStr(m[2]); ok {
			cfg.MPPTSharePercent = floatPtr(v)
		}
		if v, ok := parseFloatStr(m[3]); ok {
			cfg.InverterUnitFraction = floatPtr(v)
		}
	}

	if m := orientationPattern.FindStringSubmatch(block); m != nil {
		cfg.OrientationID = m[1]
	}

	if m := pvModuleCountPattern.FindStringSubmatch(block); m != nil {
		if n, ok := parseIntStr(m[1]); ok {
			cfg.NumberOfModules = n
		}
	}

	if m := modulesConfigPattern.FindStringSubmatch(block); m != nil {
		if n, ok := parseIntStr(m[1]); ok {
			cfg.Strings = n
		}
		if series, ok := parseIntStr(m[2]); ok {
			cfg.ModulesInSeries = series
		}
	}

	if m := nominalSTCPattern.FindStringSubmatch(block); m != nil {
		if v, ok := parseFloatStr(m[1]); ok {
			cfg.NominalSTCKWp = floatPtr(v)
		}
	}
	// Derived STC from the module rating is kept alongside the printed
	// value; it is preferred downstream, being free of report rounding.
	if ctx.ModuleUnitPowerW != nil && cfg.NumberOfModules > 0 {
		kwp := float64(*ctx.ModuleUnitPowerW) * float64(cfg.NumberOfModules) / 1000.0
		cfg.NominalSTCKWpFromModule = floatPtr(round3(kwp))
	}

	if m := tiltAzimuthPattern.FindStringSubmatch(block); m != nil {
		tilt, ok1 := parseFloatStr(m[1])
		az, ok2 := parseFloatStr(m[2])
		if ok1 && ok2 {
			cfg.TiltDeg = floatPtr(tilt)
			cfg.AzimuthPVsystDeg = floatPtr(az)
			cfg.AzimuthCompassDeg = floatPtr(CompassAzimuth(az))
		}
	}

	if m := umppPattern.FindStringSubmatch(block); m != nil {
		if v, ok := parseFloatStr(m[1]); ok {
			cfg.UMppV = floatPtr(v)
		}
	}
	if m := imppPattern.FindStringSubmatch(block); m != nil {
		if v, ok := parseFloatStr(m[1]); ok {
			cfg.IMppA = floatPtr(v)
		}
	}

	return cfg
}

// TotalSystemModules extracts the plant-wide module count, falling back to
// the sum over parsed arrays when the report omits the global line.
func TotalSystemModules(text string, arrays map[string]*ArrayConfig) int {
	if m := totalModulesPattern.FindStringSubmatch(text); m != nil {
		if n, ok := parseIntStr(m[1]); ok {
			return n
		}
	}
	total := 0
	for _, cfg := range arrays {
		total += cfg.NumberOfModules
	}
	return total
}
