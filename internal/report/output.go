package report

import (
	"encoding/json"
	"math"
	"sort"
)

// Metadata summarizes plant-level totals for quick inspection.
type Metadata struct {
	TotalArrays               int     `json:"total_arrays"`
	TotalExpandedCombinations int     `json:"total_expanded_combinations"`
	TotalInverters            int     `json:"total_inverters"`
	TotalSystemModules        int     `json:"total_system_modules"`
	TotalSystemCapacityKWp    float64 `json:"total_system_capacity_kwp"`
	TotalAnnualProductionKWh  float64 `json:"total_annual_production_kwh"`
}

// CombinedMPPT is one row of an inverter's combined configuration: the
// array config feeding one of its MPPT inputs, with the electrical and
// orientation parameters denormalized from that config.
type CombinedMPPT struct {
	MPPT              string   `json:"mppt"`
	ConfigID          string   `json:"config_id"`
	Strings           int      `json:"strings"`
	Modules           int      `json:"modules"`
	DCKWp             *float64 `json:"dc_kwp"`
	TiltDeg           *float64 `json:"tilt,omitempty"`
	AzimuthCompassDeg *float64 `json:"azimuth_compass_deg,omitempty"`
	UMppV             *float64 `json:"u_mpp_v,omitempty"`
	IMppA             *float64 `json:"i_mpp_a,omitempty"`
}

// InverterSummary aggregates one inverter's share of the plant.
type InverterSummary struct {
	DisplayName            string         `json:"display_name"`
	CapacityKWp            float64        `json:"capacity_kwp"`
	Modules                int            `json:"modules"`
	AnnualProductionKWh    float64        `json:"annual_production_kwh,omitempty"`
	SpecificYieldKWhPerKWp float64        `json:"specific_yield_kwh_per_kwp,omitempty"`
	MonthlyProduction      MonthlySeries  `json:"monthly_production,omitempty"`
	CombinedConfiguration  []CombinedMPPT `json:"combined_configuration"`
}

// Result is the complete parse output for one report. Maps serialize with
// sorted keys and monthly series keep insertion order, so repeated parses of
// the same input produce byte-identical JSON.
type Result struct {
	Metadata      Metadata       `json:"metadata"`
	PVModule      EquipmentInfo  `json:"pv_module"`
	Inverter      EquipmentInfo  `json:"inverter"`
	InverterTypes []InverterType `json:"inverter_types,omitempty"`

	ArrayConfigurations map[string]*ArrayConfig                  `json:"array_configurations"`
	Associations        map[string]map[string]EndpointAllocation `json:"associations"`
	InverterSummary     map[string]InverterSummary               `json:"inverter_summary"`

	// Production in kWh, irradiation in kWh/m2.
	SystemMonthlyProduction MonthlySeries `json:"system_monthly_production,omitempty"`
	SystemMonthlyGlobHor    MonthlySeries `json:"system_monthly_globhor,omitempty"`

	Orientations map[string]Orientation `json:"orientations,omitempty"`
	ArrayLosses  map[string]float64     `json:"array_losses,omitempty"`
}

// JSON renders the result with stable two-space indentation.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

type assembleInput struct {
	Module        EquipmentInfo
	Inverter      EquipmentInfo
	InverterTypes []InverterType
	Arrays        map[string]*ArrayConfig
	Endpoints     []*Endpoint
	EndpointAlloc map[EndpointRef]EndpointAllocation
	InverterAlloc map[string]*InverterAllocation
	Production    MonthlySeries
	GlobHor       MonthlySeries
	InvMonthly    map[string]MonthlySeries
	Orientations  map[string]*Orientation
	ArrayLosses   map[string]float64
	TotalModules  int
}

// assembleResult builds the output contract from the pipeline's pieces.
// Associations nest inverter -> MPPT label -> allocation; when two arrays
// claim the same (inverter, MPPT) slot the later array in document order
// wins the slot.
func assembleResult(in assembleInput) *Result {
	res := &Result{
		PVModule:                in.Module,
		Inverter:                in.Inverter,
		InverterTypes:           in.InverterTypes,
		ArrayConfigurations:     in.Arrays,
		Associations:            make(map[string]map[string]EndpointAllocation),
		InverterSummary:         make(map[string]InverterSummary),
		SystemMonthlyProduction: in.Production,
		SystemMonthlyGlobHor:    in.GlobHor,
		ArrayLosses:             in.ArrayLosses,
	}

	if len(in.Orientations) > 0 {
		res.Orientations = make(map[string]Orientation, len(in.Orientations))
		for id, o := range in.Orientations {
			res.Orientations[id] = *o
		}
	}

	for _, cfg := range ArraysInOrder(in.Arrays) {
		for _, ep := range in.Endpoints {
			if ep.ArrayID != cfg.ID || ep.MPPT == "" {
				continue
			}
			ref := EndpointRef{Inverter: ep.Inverter, MPPT: ep.MPPT, ArrayID: cfg.ID}
			alloc, ok := in.EndpointAlloc[ref]
			if !ok {
				continue
			}
			if res.Associations[ep.Inverter] == nil {
				res.Associations[ep.Inverter] = make(map[string]EndpointAllocation)
			}
			res.Associations[ep.Inverter][ep.MPPT] = alloc
		}
	}

	modelFor := make(map[string]string)
	for _, t := range in.InverterTypes {
		for _, inv := range t.InverterIDs {
			modelFor[inv] = t.Model
		}
	}

	for inv, byMPPT := range res.Associations {
		var ia InverterAllocation
		if a := in.InverterAlloc[inv]; a != nil {
			ia = *a
		}

		sum := InverterSummary{
			DisplayName: inv,
			CapacityKWp: ia.CapacityKWp,
			Modules:     ia.Modules,
		}
		if model := modelFor[inv]; model != "" {
			sum.DisplayName = inv + " (" + model + ")"
		}
		if series, ok := in.InvMonthly[inv]; ok {
			sum.MonthlyProduction = series
			sum.AnnualProductionKWh = series.Total()
			if ia.CapacityKWp > 0 {
				sum.SpecificYieldKWhPerKWp = math.Round(sum.AnnualProductionKWh / ia.CapacityKWp)
			}
		}

		labels := make([]string, 0, len(byMPPT))
		for mppt := range byMPPT {
			labels = append(labels, mppt)
		}
		sort.Slice(labels, func(i, j int) bool {
			ni, nj := mpptNumber(labels[i]), mpptNumber(labels[j])
			if ni != nj {
				return ni < nj
			}
			return labels[i] < labels[j]
		})
		sum.CombinedConfiguration = make([]CombinedMPPT, 0, len(labels))
		for _, mppt := range labels {
			alloc := byMPPT[mppt]
			row := CombinedMPPT{
				MPPT:     mppt,
				ConfigID: alloc.ConfigID,
				Strings:  alloc.Strings,
				Modules:  alloc.Modules,
				DCKWp:    alloc.DCKWp,
			}
			if cfg := in.Arrays[alloc.ConfigID]; cfg != nil {
				row.TiltDeg = cfg.TiltDeg
				row.AzimuthCompassDeg = cfg.AzimuthCompassDeg
				row.UMppV = cfg.UMppV
				row.IMppA = cfg.IMppA
			}
			sum.CombinedConfiguration = append(sum.CombinedConfiguration, row)
		}

		res.InverterSummary[inv] = sum
	}

	res.Metadata = buildMetadata(in, res)
	return res
}

func buildMetadata(in assembleInput, res *Result) Metadata {
	md := Metadata{
		TotalArrays:               len(in.Arrays),
		TotalExpandedCombinations: len(in.Endpoints),
		TotalInverters:            len(res.Associations),
		TotalSystemModules:        in.TotalModules,
	}

	if len(in.InverterAlloc) > 0 {
		for _, ia := range in.InverterAlloc {
			md.TotalSystemCapacityKWp += ia.CapacityKWp
		}
	} else {
		for _, cfg := range in.Arrays {
			if stc := preferredSTC(cfg); stc != nil {
				md.TotalSystemCapacityKWp += *stc
			}
		}
	}
	md.TotalSystemCapacityKWp = round1(md.TotalSystemCapacityKWp)

	md.TotalAnnualProductionKWh = in.Production.Total()
	return md
}
