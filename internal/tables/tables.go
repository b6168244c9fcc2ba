package tables

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/solardesk/pvtopo/internal/report"
)

// Load reads one CSV sidecar of table rows extracted out-of-band (camelot,
// tabula, or a manual export) into the session's tabular fallback shape.
// The first row is the header; every following row is one record.
func Load(r io.Reader, method string) ([]report.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	t := report.Table{
		Method: method,
		Header: records[0],
	}
	for _, row := range records[1:] {
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, nil
	}
	return []report.Table{t}, nil
}
