package report

import (
	"bytes"
	"encoding/json"
)

// EquipmentInfo holds nameplate data for a PV module or an inverter, as
// printed in the two-column "PV module / Inverter" specification block.
// Either record may be entirely empty when the block is not found.
type EquipmentInfo struct {
	Manufacturer    string `json:"manufacturer,omitempty"`
	Model           string `json:"model,omitempty"`
	UnitNomPowerRaw string `json:"unit_nom_power_raw,omitempty"`

	// UnitNomPowerW is set for modules (always rated in W/Wp),
	// UnitNomPowerKW for inverters (kW/kWac, MW converted down).
	UnitNomPowerW  *int     `json:"unit_nom_power_w,omitempty"`
	UnitNomPowerKW *float64 `json:"unit_nom_power_kw,omitempty"`
}

// Empty reports whether nothing was extracted for this record.
func (e EquipmentInfo) Empty() bool {
	return e.Manufacturer == "" && e.Model == "" && e.UnitNomPowerRaw == "" &&
		e.UnitNomPowerW == nil && e.UnitNomPowerKW == nil
}

// Orientation is one "Orientation #n" record. Tilt and azimuth are optional:
// degenerate reports may print the marker without a resolvable tilt/azimuth
// pair anywhere nearby.
type Orientation struct {
	ID                string   `json:"-"`
	TiltDeg           *float64 `json:"tilt,omitempty"`
	AzimuthPVsystDeg  *float64 `json:"azimuth_pvsyst_deg,omitempty"`
	AzimuthCompassDeg *float64 `json:"azimuth_compass_deg,omitempty"`
	Description       string   `json:"description,omitempty"`
}

// InferenceParams records how a single-configuration topology was derived,
// for the allocation engine and for consumers auditing the heuristic.
type InferenceParams struct {
	MPPTPerInverter   int `json:"mppt_per_inverter"`
	StringsPerMPPTMax int `json:"strings_per_mppt_max"`
	RequiredInverters int `json:"required_inverters"`
	StatedInverters   int `json:"stated_inverters"`
	TotalStrings      int `json:"total_strings"`
}

// ArrayConfig is one parsed "Array #n" block. Optional numeric fields are
// pointers so that "absent" stays distinguishable from "present but zero".
type ArrayConfig struct {
	ID string `json:"-"`

	InverterIDs []string `json:"inverter_ids,omitempty"`

	// MPPTIDs are the labels parsed from the block header. MPPTCount is the
	// per-inverter fallback derived from the "Number of inverters T * MPPT"
	// line when the header carries no labels.
	MPPTIDs              []string `json:"mppt_ids,omitempty"`
	MPPTCount            int      `json:"mppt_count,omitempty"`
	MPPTSharePercent     *float64 `json:"mppt_share_percent,omitempty"`
	InverterUnitFraction *float64 `json:"inverter_unit_fraction,omitempty"`

	NumberOfModules int `json:"number_of_modules,omitempty"`
	Strings         int `json:"strings,omitempty"`
	ModulesInSeries int `json:"modules_in_series,omitempty"`

	NominalSTCKWp           *float64 `json:"nominal_stc_kwp,omitempty"`
	NominalSTCKWpFromModule *float64 `json:"nominal_stc_kwp_from_module,omitempty"`

	TiltDeg           *float64 `json:"tilt,omitempty"`
	AzimuthPVsystDeg  *float64 `json:"azimuth_pvsyst_deg,omitempty"`
	AzimuthCompassDeg *float64 `json:"azimuth_compass_deg,omitempty"`
	UMppV             *float64 `json:"u_mpp_v,omitempty"`
	IMppA             *float64 `json:"i_mpp_a,omitempty"`

	OrientationID string `json:"orientation_id,omitempty"`

	// InverterOverride carries equipment specs interleaved between array
	// listings, when this array's inverter differs from the global one.
	InverterOverride *EquipmentInfo `json:"inverter_override,omitempty"`

	InferredSingleConfig bool             `json:"inferred_single_config,omitempty"`
	Inference            *InferenceParams `json:"inference,omitempty"`

	// Internal: not serialized.
	blockText string
	order     int
}

// Endpoint is one (array, inverter, MPPT) connection point produced by
// expanding an array's compact notation. MPPT == "" means the label is
// still unknown; the reconciler mutates it in place, never deletes.
type Endpoint struct {
	ArrayID  string
	Inverter string
	MPPT     string

	order int
}

// InverterType is a cluster of identical inverter hardware shared by one or
// more inverter ids. The id is opaque and used only for grouping.
type InverterType struct {
	ID             string   `json:"id"`
	Manufacturer   string   `json:"manufacturer,omitempty"`
	Model          string   `json:"model,omitempty"`
	UnitNomPowerKW *float64 `json:"unit_nom_power_kw,omitempty"`
	InverterIDs    []string `json:"inverter_ids"`
}

// Section is one named report section with every position its marker text
// was found at in the concatenated document.
type Section struct {
	Name      string   `json:"-"`
	Positions []int    `json:"start_positions"`
	Matches   []string `json:"matches"`
}

// MonthValue is a single entry of a MonthlySeries.
type MonthValue struct {
	Month string
	Value float64
}

// MonthlySeries maps month names to values, preserving insertion order
// (calendar order as discovered in the report, not necessarily Jan-Dec).
// At most 12 entries. It marshals as a JSON object in that order so that
// repeated runs produce byte-identical output.
type MonthlySeries []MonthValue

// Get returns the value for a month, if present.
func (s MonthlySeries) Get(month string) (float64, bool) {
	for _, mv := range s {
		if mv.Month == month {
			return mv.Value, true
		}
	}
	return 0, false
}

// Set updates an existing month or appends a new one.
func (s *MonthlySeries) Set(month string, v float64) {
	for i := range *s {
		if (*s)[i].Month == month {
			(*s)[i].Value = v
			return
		}
	}
	*s = append(*s, MonthValue{Month: month, Value: v})
}

// Total sums all monthly values.
func (s MonthlySeries) Total() float64 {
	var t float64
	for _, mv := range s {
		t += mv.Value
	}
	return t
}

func (s MonthlySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mv := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mv.Month)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(mv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *MonthlySeries) UnmarshalJSON(data []byte) error {
	m := map[string]float64{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = (*s)[:0]
	for _, month := range monthNames {
		if v, ok := m[month]; ok {
			*s = append(*s, MonthValue{Month: month, Value: v})
		}
	}
	return nil
}

// EndpointAllocation is the per-endpoint share of one array's strings,
// modules and DC capacity. DCKWp is null when the array's STC power or
// module count is unknown.
type EndpointAllocation struct {
	ConfigID string   `json:"config_id"`
	Strings  int      `json:"strings"`
	Modules  int      `json:"modules"`
	DCKWp    *float64 `json:"dc_kwp"`
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
