package argo

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

// Dataset is the read-only measurement table. It is loaded once at startup
// and never mutated; queries derive ephemeral filtered views from it.
type Dataset struct {
	rows []Measurement
}

// Load reads the consolidated measurement table from a CSV file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	var rows []Measurement
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	log.Printf("dataset: loaded %d records from %s", len(rows), path)
	return &Dataset{rows: rows}, nil
}

// NewDataset wraps an already-built measurement slice. The dataset takes
// ownership of the slice; callers must not modify it afterwards.
func NewDataset(rows []Measurement) *Dataset {
	return &Dataset{rows: rows}
}

// Rows exposes the underlying table. Callers must treat it as read-only.
func (d *Dataset) Rows() []Measurement {
	return d.rows
}

// Len returns the number of records in the table.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// DateSpan is the first and last observation date in a record set.
type DateSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Summary describes the loaded dataset as a whole.
type Summary struct {
	TotalRecords    int               `json:"totalRecords"`
	FloatCount      int               `json:"floatCount"`
	DateRange       *DateSpan         `json:"dateRange,omitempty"`
	ParameterCounts map[Parameter]int `json:"parameterCounts"`
	Bounds          *BoundingBox      `json:"geographicBounds,omitempty"`
}

// Summarize computes dataset-wide coverage information.
func (d *Dataset) Summarize() Summary {
	s := Summary{
		TotalRecords:    len(d.rows),
		ParameterCounts: make(map[Parameter]int, len(Parameters)),
	}
	if len(d.rows) == 0 {
		return s
	}

	floats := make(map[string]struct{})
	span := DateSpan{Start: d.rows[0].Date.Time, End: d.rows[0].Date.Time}
	bounds := BoundingBox{
		LatMin: d.rows[0].Latitude, LatMax: d.rows[0].Latitude,
		LonMin: d.rows[0].Longitude, LonMax: d.rows[0].Longitude,
	}

	for _, m := range d.rows {
		floats[m.FloatID] = struct{}{}

		if m.Date.Before(span.Start) {
			span.Start = m.Date.Time
		}
		if m.Date.After(span.End) {
			span.End = m.Date.Time
		}

		if m.Latitude < bounds.LatMin {
			bounds.LatMin = m.Latitude
		}
		if m.Latitude > bounds.LatMax {
			bounds.LatMax = m.Latitude
		}
		if m.Longitude < bounds.LonMin {
			bounds.LonMin = m.Longitude
		}
		if m.Longitude > bounds.LonMax {
			bounds.LonMax = m.Longitude
		}

		for _, p := range Parameters {
			if _, ok := m.Value(p); ok {
				s.ParameterCounts[p]++
			}
		}
	}

	s.FloatCount = len(floats)
	s.DateRange = &span
	s.Bounds = &bounds
	return s
}
