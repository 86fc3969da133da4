package argo

import (
	"fmt"
	"strings"
	"time"
)

// Parameter identifies one of the variables measured by ARGO floats.
type Parameter string

const (
	ParameterNone        Parameter = ""
	ParameterTemperature Parameter = "temperature"
	ParameterSalinity    Parameter = "salinity"
	ParameterPressure    Parameter = "pressure"
)

// Parameters lists the measurable parameters in canonical order.
var Parameters = []Parameter{ParameterTemperature, ParameterSalinity, ParameterPressure}

// Unit returns the measurement unit for the parameter.
func (p Parameter) Unit() string {
	switch p {
	case ParameterTemperature:
		return "°C"
	case ParameterSalinity:
		return "PSU"
	case ParameterPressure:
		return "dbar"
	default:
		return ""
	}
}

// DisplayName returns the capitalized human-readable parameter name.
func (p Parameter) DisplayName() string {
	switch p {
	case ParameterTemperature:
		return "Temperature"
	case ParameterSalinity:
		return "Salinity"
	case ParameterPressure:
		return "Pressure"
	default:
		return "Ocean conditions"
	}
}

// DateTime wraps time.Time so gocsv can decode the dataset's date column,
// which mixes plain dates and full timestamps.
type DateTime struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func (d *DateTime) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date value %q", s)
}

func (d DateTime) MarshalCSV() (string, error) {
	return d.UTC().Format(time.RFC3339), nil
}

// Measurement is one oceanographic observation from an ARGO float.
// Temperature and salinity may be missing for a given record; pressure and
// position are always present after consolidation.
type Measurement struct {
	FloatID     string   `csv:"float_id" json:"floatId"`
	Date        DateTime `csv:"date" json:"date"`
	Latitude    float64  `csv:"latitude" json:"latitude"`
	Longitude   float64  `csv:"longitude" json:"longitude"`
	Temperature *float64 `csv:"temperature" json:"temperature,omitempty"`
	Salinity    *float64 `csv:"salinity" json:"salinity,omitempty"`
	Pressure    float64  `csv:"pressure" json:"pressure"`
}

// Value returns the measurement's value for the given parameter and whether
// it is present.
func (m Measurement) Value(p Parameter) (float64, bool) {
	switch p {
	case ParameterTemperature:
		if m.Temperature == nil {
			return 0, false
		}
		return *m.Temperature, true
	case ParameterSalinity:
		if m.Salinity == nil {
			return 0, false
		}
		return *m.Salinity, true
	case ParameterPressure:
		return m.Pressure, true
	default:
		return 0, false
	}
}

// BoundingBox is a rectangular latitude/longitude region used for spatial
// filtering.
type BoundingBox struct {
	LatMin float64 `json:"latMin"`
	LatMax float64 `json:"latMax"`
	LonMin float64 `json:"lonMin"`
	LonMax float64 `json:"lonMax"`
}

// Contains reports whether the coordinate falls inside the box (inclusive).
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// DateRange is an inclusive [Start, End] time span.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DepthRange is an inclusive pressure span in dbar (roughly meters of depth).
type DepthRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Entities is the structured interpretation of a free-text query. Unset
// fields mean "no constraint". Date and DateRange are mutually exclusive.
type Entities struct {
	Parameter  Parameter   `json:"parameter,omitempty"`
	Location   string      `json:"location,omitempty"`
	Date       *time.Time  `json:"date,omitempty"`
	DateRange  *DateRange  `json:"dateRange,omitempty"`
	DepthRange *DepthRange `json:"depthRange,omitempty"`
}

// IsEmpty reports whether the query carries no constraints at all.
func (e Entities) IsEmpty() bool {
	return e.Parameter == ParameterNone && e.Location == "" &&
		e.Date == nil && e.DateRange == nil && e.DepthRange == nil
}
