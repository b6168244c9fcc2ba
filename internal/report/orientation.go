package report

import "regexp"

var (
	orientationPattern = regexp.MustCompile(`(?i)Orientation\s*#\s*(\d+)`)
	tiltAzimuthPattern = regexp.MustCompile(`(?i)Tilt/Azimuth\s*([-\d.]+)\s*/\s*([-\d.]+)\s*°`)

	// Alternate phrasings used only when no Tilt/Azimuth pair exists
	// anywhere in the document.
	tiltAzimuthFallbacks = []*regexp.Regexp{
		regexp.MustCompile(`([-\d.]+)\s*/\s*([-\d.]+)\s*°`),
		regexp.MustCompile(`(?i)Tilt\s*([-\d.]+)\s*/\s*Azimuth\s*([-\d.]+)\s*°`),
		regexp.MustCompile(`(?i)Tilt\s*([-\d.]+)\s*°\s*,\s*Azimuth\s*([-\d.]+)\s*°`),
	}
)

const orientationWindow = 800

// ExtractOrientations collects every "Orientation #n" marker and associates
// each with the nearest "Tilt/Azimuth a / b°" pair by absolute character
// distance. Reports sometimes print the tilt/azimuth before the label that
// describes it, so nearest-neighbor beats "next occurring". Duplicate ids
// are not overwritten: the first resolution wins.
func ExtractOrientations(text string) map[string]*Orientation {
	type tiltAz struct {
		pos      int
		tilt, az float64
	}

	var pairs []tiltAz
	for _, loc := range tiltAzimuthPattern.FindAllStringSubmatchIndex(text, -1) {
		tilt, ok1 := parseFloatAt(text, loc[2], loc[3])
		az, ok2 := parseFloatAt(text, loc[4], loc[5])
		if ok1 && ok2 {
			pairs = append(pairs, tiltAz{pos: loc[0], tilt: tilt, az: az})
		}
	}

	orientations := make(map[string]*Orientation)
	for _, loc := range orientationPattern.FindAllStringSubmatchIndex(text, -1) {
		id := text[loc[2]:loc[3]]
		if _, seen := orientations[id]; seen {
			continue
		}
		ori := &Orientation{ID: id}

		if len(pairs) > 0 {
			best := pairs[0]
			bestDist := absInt(best.pos - loc[0])
			for _, p := range pairs[1:] {
				if d := absInt(p.pos - loc[0]); d < bestDist {
					best, bestDist = p, d
				}
			}
			setTiltAzimuth(ori, best.tilt, best.az)
		} else {
			// Degenerate report: search a forward window with the
			// alternate phrasings.
			end := loc[0] + orientationWindow
			if end > len(text) {
				end = len(text)
			}
			window := text[loc[1]:end]
			for _, re := range tiltAzimuthFallbacks {
				m := re.FindStringSubmatch(window)
				if m == nil {
					continue
				}
				tilt, ok1 := parseFloatStr(m[1])
				az, ok2 := parseFloatStr(m[2])
				if ok1 && ok2 {
					setTiltAzimuth(ori, tilt, az)
					break
				}
			}
		}

		orientations[id] = ori
	}
	return orientations
}

func setTiltAzimuth(ori *Orientation, tilt, azPVsyst float64) {
	ori.TiltDeg = floatPtr(tilt)
	ori.AzimuthPVsystDeg = floatPtr(azPVsyst)
	ori.AzimuthCompassDeg = floatPtr(CompassAzimuth(azPVsyst))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
