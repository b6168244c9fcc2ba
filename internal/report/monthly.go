package report

import (
	"regexp"
	"strconv"
	"strings"
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthLinePattern = regexp.MustCompile(
	`^(January|February|March|April|May|June|July|August|September|October|November|December)\b`)

var numericColumn = regexp.MustCompile(`^[-\d.,]+$`)

// ExtractMonthly reads the "Balances and main results" table line by line,
// which is more robust than one large regex: spacing and column widths
// drift between report versions, and January in particular is easy to lose
// to a slightly different header layout. For each month row the first
// numeric column is GlobHor and the second-to-last is E_Grid:
//
//	Month GlobHor DiffHor T_Amb GlobInc GlobEff EArray E_Grid PR
//	January 96.1 32.59 11.85 114.8 107.1 35712 34807 0.839
//
// Entries keep calendar order as discovered.
func ExtractMonthly(pages []PageText) (production, globhor MonthlySeries) {
	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			m := monthLinePattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			month := m[1]

			parts := strings.Fields(line)
			if len(parts) < 8 {
				continue // header line, not a data row
			}
			if !numericColumn.MatchString(parts[1]) {
				continue
			}

			gh, err1 := parseTableFloat(parts[1])
			eg, err2 := parseTableFloat(parts[len(parts)-2])
			if err1 != nil || err2 != nil {
				continue
			}

			if _, seen := globhor.Get(month); !seen {
				globhor = append(globhor, MonthValue{Month: month, Value: gh})
			}
			if _, seen := production.Get(month); !seen {
				production = append(production, MonthValue{Month: month, Value: eg})
			}
		}
	}
	return production, globhor
}

func parseTableFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
