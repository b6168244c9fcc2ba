package tables

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	input := `array,configuration
"Array #1 INV 1 MPPT 1","Modules 10 strings x 12 In series"
"Array #2 INV 2","Modules 8 strings x 12 In series"
`
	tbls, err := Load(strings.NewReader(input), "sidecar")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbls) != 1 {
		t.Fatalf("got %d tables, want 1", len(tbls))
	}
	tb := tbls[0]
	if tb.Method != "sidecar" {
		t.Errorf("method = %q", tb.Method)
	}
	if len(tb.Header) != 2 || tb.Header[0] != "array" {
		t.Errorf("header = %v", tb.Header)
	}
	if len(tb.Rows) != 2 || tb.Rows[1][0] != "Array #2 INV 2" {
		t.Errorf("rows = %v", tb.Rows)
	}
}

func TestLoadEmpty(t *testing.T) {
	tbls, err := Load(strings.NewReader(""), "sidecar")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbls != nil {
		t.Errorf("expected nil for empty input, got %v", tbls)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	tbls, err := Load(strings.NewReader("a,b,c\n"), "sidecar")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbls != nil {
		t.Errorf("expected nil for header-only input, got %v", tbls)
	}
}
