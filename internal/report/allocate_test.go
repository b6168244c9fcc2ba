package report

import (
	"strings"
	"testing"
)

func TestAllocateEndpointsEven(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {
			ID:                      "1",
			InverterIDs:             []string{"INV01"},
			MPPTIDs:                 []string{"MPPT 1", "MPPT 2", "MPPT 3"},
			Strings:                 10,
			ModulesInSeries:         18,
			NominalSTCKWpFromModule: floatPtr(97.2),
		},
	}
	endpoints := ExpandEndpoints(arrays)
	alloc, notes := AllocateEndpoints(arrays, endpoints)
	if len(notes) != 0 {
		t.Errorf("unexpected notes: %v", notes)
	}
	if len(alloc) != 3 {
		t.Fatalf("got %d allocations, want 3", len(alloc))
	}

	sum, min, max := 0, 1<<31, 0
	for _, a := range alloc {
		sum += a.Strings
		if a.Strings < min {
			min = a.Strings
		}
		if a.Strings > max {
			max = a.Strings
		}
		if a.Modules != a.Strings*18 {
			t.Errorf("modules = %d for %d strings", a.Modules, a.Strings)
		}
		if a.ConfigID != "1" {
			t.Errorf("config id = %q", a.ConfigID)
		}
	}
	if sum != 10 {
		t.Errorf("strings sum = %d, want 10", sum)
	}
	if max-min > 1 {
		t.Errorf("spread = %d, want at most 1", max-min)
	}

	// Remainder goes to the first endpoints in sorted order.
	first := alloc[EndpointRef{Inverter: "INV01", MPPT: "MPPT 1", ArrayID: "1"}]
	if first.Strings != 4 {
		t.Errorf("MPPT 1 strings = %d, want 4", first.Strings)
	}
}

func TestAllocateEndpointsDCShare(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {
			ID:              "1",
			InverterIDs:     []string{"INV01"},
			MPPTIDs:         []string{"MPPT 1", "MPPT 2"},
			Strings:         4,
			ModulesInSeries: 10,
			NominalSTCKWp:   floatPtr(20),
		},
	}
	alloc, _ := AllocateEndpoints(arrays, ExpandEndpoints(arrays))
	for ref, a := range alloc {
		if a.DCKWp == nil || *a.DCKWp != 10 {
			t.Errorf("%v dc_kwp = %v, want 10", ref, a.DCKWp)
		}
	}
}

func TestAllocateEndpointsInferredFill(t *testing.T) {
	cfg := &ArrayConfig{
		ID:                   "1",
		InverterIDs:          []string{"INV01", "INV02"},
		MPPTIDs:              []string{"MPPT 1", "MPPT 2"},
		Strings:              5,
		ModulesInSeries:      18,
		InferredSingleConfig: true,
		Inference:            &InferenceParams{MPPTPerInverter: 2, StringsPerMPPTMax: 2},
	}
	arrays := map[string]*ArrayConfig{"1": cfg}
	alloc, notes := AllocateEndpoints(arrays, ExpandEndpoints(arrays))
	if len(notes) != 0 {
		t.Errorf("unexpected notes: %v", notes)
	}

	// INV01 fills both MPPTs to the cap of 2; the fifth string opens INV02.
	get := func(inv, mppt string) int {
		return alloc[EndpointRef{Inverter: inv, MPPT: mppt, ArrayID: "1"}].Strings
	}
	if get("INV01", "MPPT 1") != 2 || get("INV01", "MPPT 2") != 2 {
		t.Errorf("INV01 = %d/%d, want 2/2", get("INV01", "MPPT 1"), get("INV01", "MPPT 2"))
	}
	if get("INV02", "MPPT 1") != 1 || get("INV02", "MPPT 2") != 0 {
		t.Errorf("INV02 = %d/%d, want 1/0", get("INV02", "MPPT 1"), get("INV02", "MPPT 2"))
	}
}

func TestAllocateEndpointsInferredOverflow(t *testing.T) {
	cfg := &ArrayConfig{
		ID:                   "1",
		InverterIDs:          []string{"INV01"},
		MPPTIDs:              []string{"MPPT 1", "MPPT 2"},
		Strings:              6,
		ModulesInSeries:      18,
		InferredSingleConfig: true,
		Inference:            &InferenceParams{MPPTPerInverter: 2, StringsPerMPPTMax: 2},
	}
	arrays := map[string]*ArrayConfig{"1": cfg}
	alloc, notes := AllocateEndpoints(arrays, ExpandEndpoints(arrays))

	if len(notes) != 1 || !strings.Contains(notes[0], "exceed") {
		t.Fatalf("expected one overflow note, got %v", notes)
	}
	sum := 0
	for _, a := range alloc {
		sum += a.Strings
	}
	if sum != 6 {
		t.Errorf("strings sum = %d, want 6 (overflow must not be dropped)", sum)
	}
}

func TestAllocateInvertersSharedArray(t *testing.T) {
	// 100 kWp over 2 inverters x 2 MPPTs each: 50 kWp and half the modules
	// per inverter.
	arrays := map[string]*ArrayConfig{
		"1": {
			ID:              "1",
			InverterIDs:     []string{"INV01", "INV02"},
			MPPTIDs:         []string{"MPPT 1", "MPPT 2"},
			NumberOfModules: 200,
			NominalSTCKWp:   floatPtr(100),
		},
	}
	out := AllocateInverters(arrays, ExpandEndpoints(arrays))
	if len(out) != 2 {
		t.Fatalf("got %d inverters, want 2", len(out))
	}
	for inv, ia := range out {
		if ia.CapacityKWp != 50 {
			t.Errorf("%s capacity = %v, want 50", inv, ia.CapacityKWp)
		}
		if ia.Modules != 100 {
			t.Errorf("%s modules = %d, want 100", inv, ia.Modules)
		}
	}
}

func TestAllocateInvertersPrefersDerivedSTC(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {
			ID:                      "1",
			InverterIDs:             []string{"INV01"},
			MPPTIDs:                 []string{"MPPT 1"},
			NumberOfModules:         100,
			NominalSTCKWp:           floatPtr(55),
			NominalSTCKWpFromModule: floatPtr(54),
		},
	}
	out := AllocateInverters(arrays, ExpandEndpoints(arrays))
	if ia := out["INV01"]; ia == nil || ia.CapacityKWp != 54 {
		t.Errorf("capacity = %+v, want derived 54", out["INV01"])
	}
}

func TestAllocateMonthly(t *testing.T) {
	system := MonthlySeries{
		{Month: "January", Value: 120000},
		{Month: "February", Value: 100001},
	}
	inverters := map[string]*InverterAllocation{
		"INV01": {Modules: 60},
		"INV02": {Modules: 40},
	}
	out := AllocateMonthly(system, inverters, 100)

	jan, _ := out["INV01"].Get("January")
	if jan != 72000 {
		t.Errorf("INV01 January = %v, want 72000", jan)
	}
	feb, _ := out["INV02"].Get("February")
	if feb != 40000 { // 40000.4 rounds to the nearest kWh
		t.Errorf("INV02 February = %v, want 40000", feb)
	}
}

func TestAllocateMonthlyNoMapping(t *testing.T) {
	system := MonthlySeries{{Month: "January", Value: 1000}}
	if out := AllocateMonthly(system, nil, 0); out != nil {
		t.Errorf("expected nil without an inverter mapping, got %v", out)
	}
}
