package report

import (
	"log/slog"
	"strings"
)

// Table is one record from the optional tabular-table provider: rows
// already shaped like array records, used only as a last resort when text
// parsing and single-configuration inference both come up empty. Its
// absence never fails a run.
type Table struct {
	Method string     `json:"method"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Session parses one report start to finish. Sessions are single-use and
// single-threaded; independent reports run in independent sessions with no
// coordination. Every stage degrades to an empty or partial result on a
// pattern miss — nothing here aborts the run.
type Session struct {
	log    *slog.Logger
	pages  []PageText
	tables []Table
}

// NewSession creates a parse session over already-extracted page text.
func NewSession(pages []PageText, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{log: log, pages: pages}
}

// SetTables supplies optional tabular fallback records.
func (s *Session) SetTables(tables []Table) {
	s.tables = tables
}

// Parse runs the full reconciliation pipeline: sections, equipment,
// orientations, losses, monthly series, array blocks (with inference and
// tabular fallback), endpoint expansion, reconciliation and allocation.
func (s *Session) Parse() *Result {
	var sb strings.Builder
	for _, p := range s.pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	fullText := sb.String()

	sections := FindSections(fullText)
	contents := SectionContents(fullText, sections)

	module, inverter := ExtractEquipment(fullText)
	orientations := ExtractOrientations(fullText)

	// The marker can recur (table of contents plus body); the first span
	// with recognizable loss lines is the body.
	var losses map[string]float64
	for _, span := range contents["Array Losses"] {
		if parsed := ParseArrayLosses(span); len(parsed) > 0 {
			losses = parsed
			break
		}
	}

	production, globhor := ExtractMonthly(s.pages)

	arrays := ParseArrays(s.pages, module)
	if len(arrays) == 0 {
		if cfg := InferSingleConfig(fullText, module, inverter); cfg != nil {
			s.log.Info("no array markers found, inferred single configuration",
				"inverters", len(cfg.InverterIDs), "mppt_per_inverter", len(cfg.MPPTIDs))
			arrays[cfg.ID] = cfg
		} else if len(s.tables) > 0 {
			arrays = arraysFromTables(s.tables, module)
			if len(arrays) > 0 {
				s.log.Info("arrays recovered from tabular fallback", "arrays", len(arrays))
			}
		}
	}

	endpoints := ExpandEndpoints(arrays)
	ReconcileMPPTLabels(endpoints)
	BackfillOrientation(arrays, orientations)

	epAlloc, notes := AllocateEndpoints(arrays, endpoints)
	for _, n := range notes {
		s.log.Warn("allocation note", "note", n)
	}

	invAlloc := AllocateInverters(arrays, endpoints)
	totalModules := TotalSystemModules(fullText, arrays)
	invMonthly := AllocateMonthly(production, invAlloc, totalModules)
	types := CollectInverterTypes(inverter, arrays, endpoints)

	s.log.Info("report parsed",
		"pages", len(s.pages),
		"sections", len(sections),
		"arrays", len(arrays),
		"endpoints", len(endpoints),
		"inverters", len(invAlloc),
		"months", len(production),
	)

	return assembleResult(assembleInput{
		Module:        module,
		Inverter:      inverter,
		InverterTypes: types,
		Arrays:        arrays,
		Endpoints:     endpoints,
		EndpointAlloc: epAlloc,
		InverterAlloc: invAlloc,
		Production:    production,
		GlobHor:       globhor,
		InvMonthly:    invMonthly,
		Orientations:  orientations,
		ArrayLosses:   losses,
		TotalModules:  totalModules,
	})
}

// arraysFromTables runs table rows through the same block parser used for
// text blocks: a row is joined into a pseudo-block and must carry both an
// "Array #n" marker and a Modules line to count.
func arraysFromTables(tbls []Table, module EquipmentInfo) map[string]*ArrayConfig {
	ctx := equipContext{ModuleUnitPowerW: module.UnitNomPowerW}
	arrays := make(map[string]*ArrayConfig)
	order := 0
	for _, t := range tbls {
		for _, row := range t.Rows {
			rowText := strings.TrimSpace(strings.Join(row, " "))
			m := arrayMarkerPattern.FindStringSubmatch(rowText)
			if m == nil || !modulesSignalPattern.MatchString(rowText) {
				continue
			}
			id := m[1]
			if _, seen := arrays[id]; seen {
				continue
			}
			cfg := parseArrayBlock(rowText, id, ctx)
			cfg.order = order
			order++
			arrays[id] = cfg
		}
	}
	return arrays
}
