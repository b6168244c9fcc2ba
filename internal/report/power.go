package report

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`[0-9]*\.?[0-9]+`)

// ParseNomPower converts vendor power strings like "595Wp", "62.5kWac",
// "540 W", "1.2MWp" or "700 wp" into a numeric value. PVsyst conventions:
// module unit power is always W/Wp, inverter unit power is kWac/kW. Unit
// detection is a case-insensitive substring search; megawatts convert to kW,
// kilowatts pass through, anything else is taken as raw module watts.
func ParseNomPower(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	isMW := strings.Contains(s, "mw")
	isKW := strings.Contains(s, "kw")

	m := numberPattern.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case isMW:
		return value * 1000.0, true // MW -> kW
	case isKW:
		return value, true
	default:
		return value, true // module watts
	}
}

// CompassAzimuth converts a PVsyst azimuth (0 = South, positive = West,
// negative = East) to a compass bearing (0 = North, 90 = East, 180 = South,
// 270 = West).
func CompassAzimuth(pvsystDeg float64) float64 {
	az := math.Mod(180.0+pvsystDeg, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}

// round1, round3 match the report's printed precision for capacities and
// per-endpoint DC power.
func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func parseFloatStr(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Trim(s, "."), 64)
	return v, err == nil
}

func parseFloatAt(text string, start, end int) (float64, bool) {
	if start < 0 || end < 0 || end > len(text) || start >= end {
		return 0, false
	}
	return parseFloatStr(text[start:end])
}

func parseIntStr(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}
