package report

import (
	"regexp"
	"strings"
)

// The "PV module ... Inverter" header with a bounded lookahead window. The
// two labels may land on the same or consecutive lines depending on the
// report generator version; the window keeps the match from running into
// unrelated content. The word boundary keeps "Number of PV modules" lines
// from anchoring a match; RE2 caps repeat counts at 1000.
var equipmentHeaderPattern = regexp.MustCompile(`(?is)PV\s+module\b.{0,400}?Inverter.{0,1000}`)

var doubleSpacePattern = regexp.MustCompile(`\s{2,}`)

// ExtractEquipment locates the first two-column "PV module / Inverter"
// specification block and returns global module and inverter nameplate
// data. Both records stay empty when the header phrase is never found.
func ExtractEquipment(text string) (module, inverter EquipmentInfo) {
	m := equipmentHeaderPattern.FindString(text)
	if m == "" {
		return module, inverter
	}
	return parseEquipmentBlock(m)
}

// parseEquipmentBlock applies the two-column line grammar to a block
// already known to contain the header phrase. Column 1 is the module's
// value, column 2 (if present) the inverter's.
func parseEquipmentBlock(block string) (module, inverter EquipmentInfo) {
	var lines []string
	for _, ln := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}

	if line := firstLineContaining(lines, "Manufacturer"); line != "" {
		col1, col2 := splitTwoColumn(line, "Manufacturer")
		module.Manufacturer = col1
		inverter.Manufacturer = col2
	}
	if line := firstLineContaining(lines, "Model"); line != "" {
		col1, col2 := splitTwoColumn(line, "Model")
		module.Model = col1
		inverter.Model = col2
	}
	if line := firstLineContaining(lines, "Unit Nom. Power"); line != "" {
		col1, col2 := splitTwoColumn(line, "Unit Nom. Power")
		module.UnitNomPowerRaw = col1
		inverter.UnitNomPowerRaw = col2

		if v, ok := ParseNomPower(col1); ok {
			module.UnitNomPowerW = intPtr(int(v))
		}
		if v, ok := ParseNomPower(col2); ok {
			inverter.UnitNomPowerKW = floatPtr(v)
		}
	}
	return module, inverter
}

func firstLineContaining(lines []string, substr string) string {
	for _, ln := range lines {
		if strings.Contains(ln, substr) {
			return ln
		}
	}
	return ""
}

// splitTwoColumn applies the column grammar of the equipment block: if the
// label appears twice on the line, the text between the occurrences is
// column 1 and the remainder column 2; otherwise the remainder splits on a
// run of two or more spaces, or stays a single column.
func splitTwoColumn(line, label string) (col1, col2 string) {
	first := strings.Index(line, label)
	if first < 0 {
		return "", ""
	}
	rest := line[first+len(label):]

	if second := strings.Index(rest, label); second >= 0 {
		col1 = strings.TrimSpace(rest[:second])
		col2 = strings.TrimSpace(rest[second+len(label):])
		return col1, col2
	}

	rest = strings.TrimSpace(rest)
	if parts := doubleSpacePattern.Split(rest, 2); len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return rest, ""
}
