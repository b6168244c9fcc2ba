package report

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	inverterRangePart  = regexp.MustCompile(`(?i)(?:INV\s*)?([A-Za-z]*)\s*(\d+)\s*-\s*(?:INV\s*)?([A-Za-z]*)\s*(\d+)`)
	inverterSinglePart = regexp.MustCompile(`(?i)(?:INV\s*)?([A-Za-z]*)\s*(\d+)`)

	mpptRangePart  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	mpptSinglePart = regexp.MustCompile(`\d+`)
	mpptPrefix     = regexp.MustCompile(`(?i)^MPPT[#\s]*`)
)

// ExpandInverterRange parses compact inverter notation into individual
// canonical ids:
//
//	"INV01"          -> [INV01]
//	"INV02-05"       -> [INV02 INV03 INV04 INV05]
//	"INV02-05, 7,8"  -> [INV02 INV03 INV04 INV05 INV07 INV08]
//	"INV R1-R3"      -> [INVR01 INVR02 INVR03]
//
// The prefix of a range's end term defaults to the start term's prefix.
// Numbers are zero-padded to two digits. Tokens with non-numeric endpoints
// are dropped rather than aborting the whole list; ids are ordered by first
// appearance and duplicate-free, so expansion is idempotent.
func ExpandInverterRange(s string) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(prefix string, n int) {
		id := fmt.Sprintf("INV%s%02d", strings.ToUpper(prefix), n)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			m := inverterRangePart.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			start, ok1 := parseIntStr(m[2])
			end, ok2 := parseIntStr(m[4])
			if !ok1 || !ok2 {
				continue
			}
			prefix := m[1]
			endPrefix := m[3]
			if endPrefix == "" {
				endPrefix = prefix
			}
			if !strings.EqualFold(prefix, endPrefix) {
				// Mixed prefixes cannot form a numeric range.
				continue
			}
			for i := start; i <= end; i++ {
				add(prefix, i)
			}
			continue
		}
		if m := inverterSinglePart.FindStringSubmatch(part); m != nil {
			if n, ok := parseIntStr(m[2]); ok {
				add(m[1], n)
			}
		}
	}
	return ids
}

// ExpandMPPTRange parses MPPT notation into individual labels:
//
//	"MPPT 1"    -> [MPPT 1]
//	"MPPT 1-5"  -> [MPPT 1 ... MPPT 5]
//	"MPPT 1,2,4"-> [MPPT 1, MPPT 2, MPPT 4]
//
// The list grammar matches the inverter expander, without a prefix.
func ExpandMPPTRange(s string) []string {
	s = mpptPrefix.ReplaceAllString(strings.TrimSpace(s), "")

	var labels []string
	seen := make(map[string]bool)
	add := func(n int) {
		label := fmt.Sprintf("MPPT %d", n)
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			m := mpptRangePart.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			start, ok1 := parseIntStr(m[1])
			end, ok2 := parseIntStr(m[2])
			if !ok1 || !ok2 {
				continue
			}
			for i := start; i <= end; i++ {
				add(i)
			}
			continue
		}
		if m := mpptSinglePart.FindString(part); m != "" {
			if n, ok := parseIntStr(m); ok {
				add(n)
			}
		}
	}
	return labels
}

// mpptNumber extracts the numeric part of an "MPPT n" label, -1 when the
// label carries none.
func mpptNumber(label string) int {
	m := mpptSinglePart.FindString(label)
	if m == "" {
		return -1
	}
	n, ok := parseIntStr(m)
	if !ok {
		return -1
	}
	return n
}
