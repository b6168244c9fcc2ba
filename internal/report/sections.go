package report

import (
	"regexp"
	"sort"
)

// sectionPattern names one report section and the keyword alternation that
// marks it. New report variants are handled by adding rows, not branches.
type sectionPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var sectionPatterns = []sectionPattern{
	{"Project Summary", regexp.MustCompile(`(?i)Project summary|System summary|Results summary`)},
	{"PV Array Characteristics", regexp.MustCompile(`(?i)PV Array Characteristics`)},
	{"System Losses", regexp.MustCompile(`(?i)System losses|Loss diagram`)},
	{"Array Losses", regexp.MustCompile(`(?i)Array losses`)},
	{"Main Results", regexp.MustCompile(`(?i)Main results`)},
}

// FindSections scans the concatenated document text for every known section
// marker. A section may legitimately recur (table of contents plus body);
// every occurrence is recorded. Names without any match are simply absent.
func FindSections(text string) map[string]*Section {
	sections := make(map[string]*Section)
	for _, sp := range sectionPatterns {
		locs := sp.Pattern.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		sec := &Section{Name: sp.Name}
		for _, loc := range locs {
			sec.Positions = append(sec.Positions, loc[0])
			sec.Matches = append(sec.Matches, text[loc[0]:loc[1]])
		}
		sections[sp.Name] = sec
	}
	return sections
}

// SectionContents slices the document into contiguous spans between
// consecutive marker positions, attributing each span to the section whose
// marker starts it. Spans are returned per name in document order.
func SectionContents(text string, sections map[string]*Section) map[string][]string {
	type marker struct {
		pos  int
		name string
	}
	var markers []marker
	for name, sec := range sections {
		for _, pos := range sec.Positions {
			markers = append(markers, marker{pos: pos, name: name})
		}
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].pos != markers[j].pos {
			return markers[i].pos < markers[j].pos
		}
		return markers[i].name < markers[j].name
	})

	contents := make(map[string][]string)
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].pos
		}
		contents[m.name] = append(contents[m.name], text[m.pos:end])
	}
	return contents
}
