package report

import "regexp"

// lossPattern maps one loss-factor line of the "Array Losses" section to an
// output key. The table is data so new loss wordings are additive.
type lossPattern struct {
	Key     string
	Pattern *regexp.Regexp
}

var lossPatterns = []lossPattern{
	{"thermal_loss_uc_w_m2k", regexp.MustCompile(`(?i)Uc\s*\(const\)\s*([\d.]+)\s*W/m`)},
	{"thermal_loss_uv_w_m2k_ms", regexp.MustCompile(`(?i)Uv\s*\(wind\)\s*([\d.]+)\s*W/m`)},
	{"dc_wiring_loss_stc_percent", regexp.MustCompile(`(?i)Loss\s+Fraction\s*([\d.]+)\s*%\s*at\s*STC`)},
	{"module_quality_loss_percent", regexp.MustCompile(`(?i)Module\s+Quality\s+Loss[^\d-]*(-?[\d.]+)\s*%`)},
	{"lid_loss_percent", regexp.MustCompile(`(?i)LID[^\d]*([\d.]+)\s*%`)},
	{"module_mismatch_loss_percent", regexp.MustCompile(`(?i)Module\s+mismatch\s+losses?[^\d]*([\d.]+)\s*%`)},
	{"strings_mismatch_loss_percent", regexp.MustCompile(`(?i)Strings\s+Mismatch\s+loss[^\d]*([\d.]+)\s*%`)},
	{"soiling_loss_percent", regexp.MustCompile(`(?i)Soiling\s+loss[^\d]*([\d.]+)\s*%`)},
}

// ParseArrayLosses pulls the standard loss factors out of one "Array
// Losses" section span. Lines that match no pattern are ignored; a report
// with no recognizable loss lines yields an empty map, not an error.
func ParseArrayLosses(section string) map[string]float64 {
	losses := make(map[string]float64)
	for _, lp := range lossPatterns {
		m := lp.Pattern.FindStringSubmatch(section)
		if m == nil {
			continue
		}
		if v, ok := parseFloatStr(m[1]); ok {
			losses[lp.Key] = v
		}
	}
	return losses
}
