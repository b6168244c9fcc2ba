package report

import (
	"fmt"
	"testing"
)

func TestExpandEndpointsCrossProduct(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {
			ID:          "1",
			InverterIDs: []string{"INV01", "INV02"},
			MPPTIDs:     []string{"MPPT 1", "MPPT 2", "MPPT 3"},
		},
	}
	endpoints := ExpandEndpoints(arrays)
	if len(endpoints) != 6 {
		t.Fatalf("got %d endpoints, want 6", len(endpoints))
	}
	seen := make(map[string]bool)
	for _, ep := range endpoints {
		seen[ep.Inverter+"/"+ep.MPPT] = true
	}
	for _, inv := range []string{"INV01", "INV02"} {
		for n := 1; n <= 3; n++ {
			key := fmt.Sprintf("%s/MPPT %d", inv, n)
			if !seen[key] {
				t.Errorf("missing endpoint %s", key)
			}
		}
	}
}

func TestExpandEndpointsMPPTCountFallback(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {ID: "1", InverterIDs: []string{"INV01"}, MPPTCount: 2},
	}
	endpoints := ExpandEndpoints(arrays)
	if len(endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(endpoints))
	}
	if endpoints[0].MPPT != "MPPT 1" || endpoints[1].MPPT != "MPPT 2" {
		t.Errorf("labels = %q, %q", endpoints[0].MPPT, endpoints[1].MPPT)
	}
}

func TestExpandEndpointsUnlabelled(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {ID: "1", InverterIDs: []string{"INV01", "INV02"}},
		"2": {ID: "2", order: 1},
	}
	endpoints := ExpandEndpoints(arrays)
	if len(endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2 (array 2 has no inverters)", len(endpoints))
	}
	for _, ep := range endpoints {
		if ep.MPPT != "" {
			t.Errorf("endpoint %s should be unlabelled, got %q", ep.Inverter, ep.MPPT)
		}
	}
}

func TestReconcileMPPTLabels(t *testing.T) {
	// INV01 already uses MPPT 2 explicitly; the two unlabelled endpoints
	// must take 1 and 3, ordered by numeric array id.
	endpoints := []*Endpoint{
		{ArrayID: "5", Inverter: "INV01", MPPT: "MPPT 2", order: 0},
		{ArrayID: "12", Inverter: "INV01", MPPT: "", order: 1},
		{ArrayID: "3", Inverter: "INV01", MPPT: "", order: 2},
	}
	ReconcileMPPTLabels(endpoints)

	if endpoints[0].MPPT != "MPPT 2" {
		t.Errorf("explicit label changed to %q", endpoints[0].MPPT)
	}
	// Array 3 sorts before array 12 numerically, so it takes the lowest
	// unused number.
	if endpoints[2].MPPT != "MPPT 1" {
		t.Errorf("array 3 label = %q, want MPPT 1", endpoints[2].MPPT)
	}
	if endpoints[1].MPPT != "MPPT 3" {
		t.Errorf("array 12 label = %q, want MPPT 3", endpoints[1].MPPT)
	}

	used := make(map[string]bool)
	for _, ep := range endpoints {
		key := ep.Inverter + "/" + ep.MPPT
		if used[key] {
			t.Errorf("duplicate label %s", key)
		}
		used[key] = true
	}
}

func TestReconcileMPPTLabelsPerInverter(t *testing.T) {
	endpoints := []*Endpoint{
		{ArrayID: "1", Inverter: "INV01", MPPT: ""},
		{ArrayID: "1", Inverter: "INV02", MPPT: ""},
	}
	ReconcileMPPTLabels(endpoints)
	if endpoints[0].MPPT != "MPPT 1" || endpoints[1].MPPT != "MPPT 1" {
		t.Errorf("numbering is per inverter: got %q, %q", endpoints[0].MPPT, endpoints[1].MPPT)
	}
}

func TestBackfillOrientationSingle(t *testing.T) {
	arrays := map[string]*ArrayConfig{
		"1": {ID: "1"},
		"2": {ID: "2", OrientationID: "9", TiltDeg: floatPtr(5)},
	}
	orientations := map[string]*Orientation{
		"1": {ID: "1", TiltDeg: floatPtr(20), AzimuthPVsystDeg: floatPtr(0), AzimuthCompassDeg: floatPtr(180)},
	}
	BackfillOrientation(arrays, orientations)

	a1 := arrays["1"]
	if a1.OrientationID != "1" {
		t.Errorf("array 1 orientation = %q, want 1", a1.OrientationID)
	}
	if a1.TiltDeg == nil || *a1.TiltDeg != 20 {
		t.Errorf("array 1 tilt = %v, want 20", a1.TiltDeg)
	}
	if a1.AzimuthCompassDeg == nil || *a1.AzimuthCompassDeg != 180 {
		t.Errorf("array 1 compass = %v, want 180", a1.AzimuthCompassDeg)
	}

	a2 := arrays["2"]
	if a2.OrientationID != "9" || *a2.TiltDeg != 5 {
		t.Errorf("array 2 with its own orientation was overwritten: %+v", a2)
	}
}

func TestBackfillOrientationMultipleIsNoop(t *testing.T) {
	arrays := map[string]*ArrayConfig{"1": {ID: "1"}}
	orientations := map[string]*Orientation{
		"1": {ID: "1", TiltDeg: floatPtr(10)},
		"2": {ID: "2", TiltDeg: floatPtr(20)},
	}
	BackfillOrientation(arrays, orientations)
	if arrays["1"].OrientationID != "" {
		t.Errorf("ambiguous orientations must not backfill, got %q", arrays["1"].OrientationID)
	}
}
