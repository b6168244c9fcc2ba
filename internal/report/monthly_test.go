package report

import "testing"

const monthlySample = `Balances and main results
	GlobHor	DiffHor	T_Amb	GlobInc	GlobEff	EArray	E_Grid	PR
	kWh/m2	kWh/m2	C	kWh/m2	kWh/m2	kWh	kWh	ratio
January 96.1 32.59 11.85 114.8 107.1 35712 34807 0.839
February 103.2 35.10 12.90 118.2 110.4 36890 35952 0.841
December 88.4 30.01 11.02 108.9 101.5 33104 32266 0.833
Year 1152.7 390.2 12.4 1388.1 1295.4 421500 410893 0.838
`

func TestExtractMonthly(t *testing.T) {
	pages := []PageText{{Page: 1, Text: monthlySample}}
	production, globhor := ExtractMonthly(pages)

	if len(production) != 3 || len(globhor) != 3 {
		t.Fatalf("got %d production / %d globhor months, want 3 / 3", len(production), len(globhor))
	}

	if v, ok := production.Get("January"); !ok || v != 34807 {
		t.Errorf("January E_Grid = %v, want 34807", v)
	}
	if v, ok := globhor.Get("January"); !ok || v != 96.1 {
		t.Errorf("January GlobHor = %v, want 96.1", v)
	}
	if v, ok := production.Get("December"); !ok || v != 32266 {
		t.Errorf("December E_Grid = %v, want 32266", v)
	}

	// Discovery order is preserved.
	if production[0].Month != "January" || production[2].Month != "December" {
		t.Errorf("order = %v", production)
	}
}

func TestExtractMonthlySkipsShortAndHeaderLines(t *testing.T) {
	pages := []PageText{{Page: 1, Text: "January GlobHor E_Grid\nJanuary summary of results\n"}}
	production, globhor := ExtractMonthly(pages)
	if len(production) != 0 || len(globhor) != 0 {
		t.Errorf("header lines must not produce data: %v / %v", production, globhor)
	}
}

func TestExtractMonthlyFirstSeenWins(t *testing.T) {
	text := `January 96.1 32.59 11.85 114.8 107.1 35712 34807 0.839
January 10.0 32.59 11.85 114.8 107.1 35712 99999 0.839
`
	production, _ := ExtractMonthly([]PageText{{Page: 1, Text: text}})
	if v, _ := production.Get("January"); v != 34807 {
		t.Errorf("January = %v, want first occurrence 34807", v)
	}
	if len(production) != 1 {
		t.Errorf("got %d entries, want 1", len(production))
	}
}

func TestExtractMonthlyCommaGrouping(t *testing.T) {
	text := "January 96.1 32.59 11.85 114.8 107.1 1,235,712 1,234,807 0.839\n"
	production, _ := ExtractMonthly([]PageText{{Page: 1, Text: text}})
	if v, _ := production.Get("January"); v != 1234807 {
		t.Errorf("January = %v, want 1234807", v)
	}
}

func TestMonthlySeriesTotal(t *testing.T) {
	s := MonthlySeries{{Month: "January", Value: 100}, {Month: "February", Value: 50.5}}
	if s.Total() != 150.5 {
		t.Errorf("total = %v", s.Total())
	}
}
