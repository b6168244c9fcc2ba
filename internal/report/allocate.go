package report

import (
	"fmt"
	"math"
	"sort"
)

// EndpointRef identifies one allocation slot: an array's share of a single
// (inverter, MPPT) input.
type EndpointRef struct {
	Inverter string
	MPPT     string
	ArrayID  string
}

// InverterAllocation is one inverter's aggregate share of plant capacity
// and module count across every array it touches.
type InverterAllocation struct {
	CapacityKWp float64
	Modules     int
}

// preferredSTC returns the array STC power used for allocation: the value
// derived from the module rating when present, else the printed one. The
// derived value is not subject to report rounding.
func preferredSTC(cfg *ArrayConfig) *float64 {
	if cfg.NominalSTCKWpFromModule != nil {
		return cfg.NominalSTCKWpFromModule
	}
	return cfg.NominalSTCKWp
}

// AllocateEndpoints distributes each array's strings, modules and DC kWp
// across its endpoints. The default policy spreads strings as evenly as
// possible, remainder to the first endpoints in sorted order. An inferred
// single-configuration array instead fills inverter by inverter,
// round-robin across each inverter's MPPTs up to the family's
// strings-per-MPPT cap; strings beyond total capacity go round-robin over
// all endpoints ignoring the cap, with a diagnostic note rather than being
// dropped.
func AllocateEndpoints(arrays map[string]*ArrayConfig, endpoints []*Endpoint) (map[EndpointRef]EndpointAllocation, []string) {
	byArray := make(map[string][]*Endpoint)
	for _, ep := range endpoints {
		byArray[ep.ArrayID] = append(byArray[ep.ArrayID], ep)
	}

	alloc := make(map[EndpointRef]EndpointAllocation)
	var notes []string

	for _, cfg := range ArraysInOrder(arrays) {
		eps := uniqueEndpoints(byArray[cfg.ID])
		if len(eps) == 0 {
			continue
		}

		var stringsPer []int
		if cfg.InferredSingleConfig && cfg.Inference != nil {
			var note string
			stringsPer, note = fillInferred(cfg, eps)
			if note != "" {
				notes = append(notes, note)
			}
		} else {
			stringsPer = fillEven(cfg.Strings, len(eps))
		}

		stc := preferredSTC(cfg)
		totalModules := cfg.Strings * cfg.ModulesInSeries

		for i, ep := range eps {
			modules := stringsPer[i] * cfg.ModulesInSeries
			var dc *float64
			if stc != nil && totalModules > 0 {
				dc = floatPtr(round3(*stc * float64(modules) / float64(totalModules)))
			}
			alloc[EndpointRef{Inverter: ep.Inverter, MPPT: ep.MPPT, ArrayID: cfg.ID}] = EndpointAllocation{
				ConfigID: cfg.ID,
				Strings:  stringsPer[i],
				Modules:  modules,
				DCKWp:    dc,
			}
		}
	}
	return alloc, notes
}

// uniqueEndpoints drops duplicate (inverter, MPPT) pairs and sorts by
// inverter id, then numeric MPPT label.
func uniqueEndpoints(eps []*Endpoint) []*Endpoint {
	seen := make(map[[2]string]bool)
	var out []*Endpoint
	for _, ep := range eps {
		key := [2]string{ep.Inverter, ep.MPPT}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ep)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Inverter != out[j].Inverter {
			return out[i].Inverter < out[j].Inverter
		}
		return mpptNumber(out[i].MPPT) < mpptNumber(out[j].MPPT)
	})
	return out
}

// fillEven gives each of n endpoints strings/n, the first strings%n one
// extra.
func fillEven(strings, n int) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	base := strings / n
	rem := strings % n
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// fillInferred implements the order-sensitive policy for inferred arrays:
// inverters fill in id order; within an inverter, one string at a time
// round-robin across its MPPTs until each reaches the cap.
func fillInferred(cfg *ArrayConfig, eps []*Endpoint) ([]int, string) {
	out := make([]int, len(eps))
	maxPer := cfg.Inference.StringsPerMPPTMax
	remaining := cfg.Strings

	// eps are sorted inverter-first, so group boundaries are contiguous.
	for start := 0; start < len(eps) && remaining > 0; {
		end := start
		for end < len(eps) && eps[end].Inverter == eps[start].Inverter {
			end++
		}
		for remaining > 0 {
			gave := false
			for i := start; i < end && remaining > 0; i++ {
				if out[i] < maxPer {
					out[i]++
					remaining--
					gave = true
				}
			}
			if !gave {
				break // inverter full
			}
		}
		start = end
	}

	var note string
	if remaining > 0 {
		note = fmt.Sprintf("array %s: %d strings exceed inferred topology capacity; distributing round-robin past the %d strings/MPPT cap", cfg.ID, remaining, maxPer)
		for i := 0; remaining > 0; i = (i + 1) % len(eps) {
			out[i]++
			remaining--
		}
	}
	return out, note
}

// AllocateInverters apportions each array's capacity and module count over
// the inverters sharing it. The array total divides evenly across the
// global endpoint count (inverters using the array times MPPTs each
// contributes); an inverter's share is proportional to its own endpoint
// count. Capacity rounds to one decimal; module counts truncate per array
// before summing.
func AllocateInverters(arrays map[string]*ArrayConfig, endpoints []*Endpoint) map[string]*InverterAllocation {
	byInverter := make(map[string][]*Endpoint)
	usage := make(map[string]map[string]bool) // array id -> inverter set
	for _, ep := range endpoints {
		byInverter[ep.Inverter] = append(byInverter[ep.Inverter], ep)
		if usage[ep.ArrayID] == nil {
			usage[ep.ArrayID] = make(map[string]bool)
		}
		usage[ep.ArrayID][ep.Inverter] = true
	}

	out := make(map[string]*InverterAllocation)
	for inv, eps := range byInverter {
		byArray := make(map[string]int)
		for _, ep := range eps {
			byArray[ep.ArrayID]++
		}

		var capacity float64
		var modules int
		for arrayID, ownMPPTs := range byArray {
			cfg, ok := arrays[arrayID]
			if !ok {
				continue
			}
			var arrayCap float64
			if stc := preferredSTC(cfg); stc != nil {
				arrayCap = *stc
			}
			totalMPPTs := len(usage[arrayID]) * ownMPPTs
			if totalMPPTs == 0 {
				continue
			}
			capacity += arrayCap / float64(totalMPPTs) * float64(ownMPPTs)
			modules += int(float64(cfg.NumberOfModules) / float64(totalMPPTs) * float64(ownMPPTs))
		}

		out[inv] = &InverterAllocation{
			CapacityKWp: round1(capacity),
			Modules:     modules,
		}
	}
	return out
}

// AllocateMonthly splits the plant-wide monthly series across inverters in
// proportion to module share, each month rounded to the nearest whole kWh.
// With no inverter/module mapping at all, no per-inverter series exists and
// only the plant-level series is retained.
func AllocateMonthly(system MonthlySeries, inverters map[string]*InverterAllocation, totalModules int) map[string]MonthlySeries {
	if len(inverters) == 0 || totalModules <= 0 || len(system) == 0 {
		return nil
	}
	out := make(map[string]MonthlySeries)
	for inv, ia := range inverters {
		share := float64(ia.Modules) / float64(totalModules)
		var series MonthlySeries
		for _, mv := range system {
			series = append(series, MonthValue{
				Month: mv.Month,
				Value: math.Round(mv.Value * share),
			})
		}
		out[inv] = series
	}
	return out
}
