package report

import (
	"reflect"
	"testing"
)

func TestCollectInverterTypesSingleType(t *testing.T) {
	global := EquipmentInfo{Manufacturer: "SMA", Model: "Tripower", UnitNomPowerKW: floatPtr(62.5)}
	arrays := map[string]*ArrayConfig{
		"1": {ID: "1", InverterIDs: []string{"INV01", "INV02"}},
	}
	endpoints := ExpandEndpoints(map[string]*ArrayConfig{
		"1": {ID: "1", InverterIDs: []string{"INV01", "INV02"}, MPPTIDs: []string{"MPPT 1"}},
	})

	types := CollectInverterTypes(global, arrays, endpoints)
	if len(types) != 1 {
		t.Fatalf("got %d types, want 1", len(types))
	}
	if types[0].ID != "type-1" || types[0].Model != "Tripower" {
		t.Errorf("type = %+v", types[0])
	}
	if !reflect.DeepEqual(types[0].InverterIDs, []string{"INV01", "INV02"}) {
		t.Errorf("inverter ids = %v", types[0].InverterIDs)
	}
}

func TestCollectInverterTypesOverride(t *testing.T) {
	global := EquipmentInfo{Manufacturer: "Huawei", Model: "SUN2000-100KTL", UnitNomPowerKW: floatPtr(100)}
	override := &EquipmentInfo{Manufacturer: "Huawei", Model: "SUN2000-60KTL", UnitNomPowerKW: floatPtr(60)}
	arrays := map[string]*ArrayConfig{
		"1": {ID: "1", InverterIDs: []string{"INV01"}},
		"2": {ID: "2", InverterIDs: []string{"INV02"}, InverterOverride: override, order: 1},
	}
	endpoints := []*Endpoint{
		{ArrayID: "1", Inverter: "INV01", MPPT: "MPPT 1"},
		{ArrayID: "2", Inverter: "INV02", MPPT: "MPPT 1"},
	}

	types := CollectInverterTypes(global, arrays, endpoints)
	if len(types) != 2 {
		t.Fatalf("got %d types, want 2", len(types))
	}

	byModel := make(map[string][]string)
	for _, ty := range types {
		byModel[ty.Model] = ty.InverterIDs
	}
	if !reflect.DeepEqual(byModel["SUN2000-100KTL"], []string{"INV01"}) {
		t.Errorf("100KTL ids = %v", byModel["SUN2000-100KTL"])
	}
	if !reflect.DeepEqual(byModel["SUN2000-60KTL"], []string{"INV02"}) {
		t.Errorf("60KTL ids = %v", byModel["SUN2000-60KTL"])
	}
}

func TestCollectInverterTypesNoTopology(t *testing.T) {
	global := EquipmentInfo{Manufacturer: "SMA", Model: "Tripower"}
	types := CollectInverterTypes(global, nil, nil)
	if len(types) != 1 {
		t.Fatalf("got %d types, want 1", len(types))
	}
	if len(types[0].InverterIDs) != 0 {
		t.Errorf("no expanded topology means no ids, got %v", types[0].InverterIDs)
	}
}

func TestCollectInverterTypesAllEmpty(t *testing.T) {
	if types := CollectInverterTypes(EquipmentInfo{}, nil, nil); types != nil {
		t.Errorf("expected nil, got %v", types)
	}
}
