package report

import (
	"fmt"
	"sort"
	"strconv"
)

// ExpandEndpoints turns each array's compact inverter/MPPT notation into
// concrete (array, inverter, MPPT) endpoints. An array with inverter ids
// and MPPT labels (or a derivable count) yields the full cross-product; one
// with inverter ids only yields one unlabelled endpoint per inverter; one
// with neither yields nothing.
func ExpandEndpoints(arrays map[string]*ArrayConfig) []*Endpoint {
	var endpoints []*Endpoint
	order := 0
	add := func(arrayID, inv, mppt string) {
		endpoints = append(endpoints, &Endpoint{
			ArrayID:  arrayID,
			Inverter: inv,
			MPPT:     mppt,
			order:    order,
		})
		order++
	}

	for _, cfg := range ArraysInOrder(arrays) {
		if len(cfg.InverterIDs) == 0 {
			continue
		}
		mpptIDs := cfg.MPPTIDs
		if len(mpptIDs) == 0 && cfg.MPPTCount > 0 {
			for i := 1; i <= cfg.MPPTCount; i++ {
				mpptIDs = append(mpptIDs, fmt.Sprintf("MPPT %d", i))
			}
		}

		if len(mpptIDs) > 0 {
			for _, inv := range cfg.InverterIDs {
				for _, mppt := range mpptIDs {
					add(cfg.ID, inv, mppt)
				}
			}
		} else {
			for _, inv := range cfg.InverterIDs {
				add(cfg.ID, inv, "")
			}
		}
	}
	return endpoints
}

// ReconcileMPPTLabels assigns a synthesized label to every endpoint still
// missing one: per inverter, the lowest MPPT number not already used by a
// labelled endpoint, processing unlabelled endpoints in order of numeric
// array id then discovery order. Explicit labels are never touched, so no
// inverter ends up with two endpoints on the same MPPT number unless the
// report itself declared them.
func ReconcileMPPTLabels(endpoints []*Endpoint) {
	byInverter := make(map[string][]*Endpoint)
	for _, ep := range endpoints {
		byInverter[ep.Inverter] = append(byInverter[ep.Inverter], ep)
	}

	for _, eps := range byInverter {
		used := make(map[int]bool)
		var missing []*Endpoint
		for _, ep := range eps {
			if ep.MPPT != "" {
				if n := mpptNumber(ep.MPPT); n >= 0 {
					used[n] = true
				}
				continue
			}
			missing = append(missing, ep)
		}
		if len(missing) == 0 {
			continue
		}

		sort.SliceStable(missing, func(i, j int) bool {
			a, errA := strconv.Atoi(missing[i].ArrayID)
			b, errB := strconv.Atoi(missing[j].ArrayID)
			if errA == nil && errB == nil && a != b {
				return a < b
			}
			return missing[i].order < missing[j].order
		})

		next := 1
		for _, ep := range missing {
			for used[next] {
				next++
			}
			used[next] = true
			ep.MPPT = fmt.Sprintf("MPPT %d", next)
		}
	}
}

// BackfillOrientation copies the plant's only orientation onto every array
// that did not resolve one of its own. Reports with a single orientation
// frequently omit the per-array marker.
func BackfillOrientation(arrays map[string]*ArrayConfig, orientations map[string]*Orientation) {
	if len(orientations) != 1 {
		return
	}
	var ori *Orientation
	for _, o := range orientations {
		ori = o
	}

	for _, cfg := range arrays {
		if cfg.OrientationID != "" {
			continue
		}
		cfg.OrientationID = ori.ID
		if ori.TiltDeg != nil {
			cfg.TiltDeg = floatPtr(*ori.TiltDeg)
		}
		if ori.AzimuthPVsystDeg != nil {
			cfg.AzimuthPVsystDeg = floatPtr(*ori.AzimuthPVsystDeg)
		}
		if ori.AzimuthCompassDeg != nil {
			cfg.AzimuthCompassDeg = floatPtr(*ori.AzimuthCompassDeg)
		}
	}
}
