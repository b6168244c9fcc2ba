package report

import "testing"

const inferSample = `PV Array Characteristics
Nb. of modules 864 units
Nb. of units 5
Modules 48 strings x 18 In series
`

func TestInferSingleConfigTripower(t *testing.T) {
	module := EquipmentInfo{UnitNomPowerW: intPtr(540)}
	inverter := EquipmentInfo{Manufacturer: "SMA", Model: "Sunny Tripower CORE1 62-US-41"}

	cfg := InferSingleConfig(inferSample, module, inverter)
	if cfg == nil {
		t.Fatal("expected an inferred configuration")
	}

	// 48 strings / (6 MPPT x 2 strings) = 4 inverters; the stated 5 is an
	// upper bound and loses to the requirement.
	if len(cfg.InverterIDs) != 4 {
		t.Fatalf("got %d inverters, want 4: %v", len(cfg.InverterIDs), cfg.InverterIDs)
	}
	if cfg.InverterIDs[0] != "INV01" || cfg.InverterIDs[3] != "INV04" {
		t.Errorf("inverter ids = %v", cfg.InverterIDs)
	}
	if len(cfg.MPPTIDs) != 6 {
		t.Errorf("got %d MPPTs per inverter, want 6", len(cfg.MPPTIDs))
	}
	if !cfg.InferredSingleConfig || cfg.Inference == nil {
		t.Fatal("inference marker missing")
	}
	if cfg.Inference.RequiredInverters != 4 || cfg.Inference.StatedInverters != 5 {
		t.Errorf("inference params = %+v", cfg.Inference)
	}
	if cfg.Strings != 48 || cfg.ModulesInSeries != 18 || cfg.NumberOfModules != 864 {
		t.Errorf("config = %d strings x %d, %d modules", cfg.Strings, cfg.ModulesInSeries, cfg.NumberOfModules)
	}
	if cfg.NominalSTCKWpFromModule == nil || *cfg.NominalSTCKWpFromModule != 466.56 {
		t.Errorf("derived STC = %v, want 466.56", cfg.NominalSTCKWpFromModule)
	}
}

func TestInferSingleConfigStatedBelowRequired(t *testing.T) {
	text := `PV Array Characteristics
Nb. of modules 864 units
Nb. of units 3
Modules 48 strings x 18 In series
`
	inverter := EquipmentInfo{Manufacturer: "SMA", Model: "Tripower X"}
	cfg := InferSingleConfig(text, EquipmentInfo{}, inverter)
	if cfg == nil {
		t.Fatal("expected an inferred configuration")
	}
	if len(cfg.InverterIDs) != 3 {
		t.Errorf("stated count below required must win: got %d inverters", len(cfg.InverterIDs))
	}
}

func TestInferSingleConfigUnknownFamily(t *testing.T) {
	inverter := EquipmentInfo{Manufacturer: "Acme", Model: "PowerBox 9000"}
	cfg := InferSingleConfig(inferSample, EquipmentInfo{}, inverter)
	if cfg == nil {
		t.Fatal("expected an inferred configuration")
	}
	// Unknown family collapses to one inverter with one MPPT taking all
	// strings.
	if len(cfg.InverterIDs) != 1 || len(cfg.MPPTIDs) != 1 {
		t.Errorf("got %d inverters x %d MPPTs, want 1 x 1", len(cfg.InverterIDs), len(cfg.MPPTIDs))
	}
}

func TestInferSingleConfigPreconditions(t *testing.T) {
	tests := []struct {
		name, text string
	}{
		{"no section", "Nb. of modules 864 units\nNb. of units 5\nModules 48 strings x 18 In series"},
		{"no module count", "PV Array Characteristics\nNb. of units 5\nModules 48 strings x 18 In series"},
		{"no unit count", "PV Array Characteristics\nNb. of modules 864 units\nModules 48 strings x 18 In series"},
		{"no config line", "PV Array Characteristics\nNb. of modules 864 units\nNb. of units 5"},
	}
	for _, tt := range tests {
		if cfg := InferSingleConfig(tt.text, EquipmentInfo{}, EquipmentInfo{}); cfg != nil {
			t.Errorf("%s: expected nil, got %+v", tt.name, cfg)
		}
	}
}
