package report

import (
	"fmt"
	"sort"
)

// CollectInverterTypes clusters inverters by (manufacturer, model, unit
// power). Every inverter starts on the global type; arrays carrying an
// equipment override move their inverters onto the override's type. Type
// ids are opaque, ordered by first appearance, and used only for grouping.
func CollectInverterTypes(global EquipmentInfo, arrays map[string]*ArrayConfig, endpoints []*Endpoint) []InverterType {
	type key struct {
		manufacturer, model string
		powerKW             float64
		hasPower            bool
	}
	keyFor := func(e EquipmentInfo) key {
		k := key{manufacturer: e.Manufacturer, model: e.Model}
		if e.UnitNomPowerKW != nil {
			k.powerKW = *e.UnitNomPowerKW
			k.hasPower = true
		}
		return k
	}

	inverterEquip := make(map[string]EquipmentInfo)
	for _, ep := range endpoints {
		if _, ok := inverterEquip[ep.Inverter]; !ok {
			inverterEquip[ep.Inverter] = global
		}
	}
	for _, cfg := range ArraysInOrder(arrays) {
		if cfg.InverterOverride == nil {
			continue
		}
		for _, inv := range cfg.InverterIDs {
			inverterEquip[inv] = *cfg.InverterOverride
		}
	}
	if len(inverterEquip) == 0 {
		if global.Empty() {
			return nil
		}
		// No expanded topology; still report the global hardware type.
		return []InverterType{{
			ID:             "type-1",
			Manufacturer:   global.Manufacturer,
			Model:          global.Model,
			UnitNomPowerKW: global.UnitNomPowerKW,
			InverterIDs:    []string{},
		}}
	}

	inverters := make([]string, 0, len(inverterEquip))
	for inv := range inverterEquip {
		inverters = append(inverters, inv)
	}
	sort.Strings(inverters)

	var types []InverterType
	index := make(map[key]int)
	for _, inv := range inverters {
		equip := inverterEquip[inv]
		k := keyFor(equip)
		i, ok := index[k]
		if !ok {
			i = len(types)
			index[k] = i
			types = append(types, InverterType{
				ID:             fmt.Sprintf("type-%d", i+1),
				Manufacturer:   equip.Manufacturer,
				Model:          equip.Model,
				UnitNomPowerKW: equip.UnitNomPowerKW,
			})
		}
		types[i].InverterIDs = append(types[i].InverterIDs, inv)
	}
	return types
}
