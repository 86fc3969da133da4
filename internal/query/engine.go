// Package query filters the measurement table with the constraints carried
// by extracted entities and derives summary statistics for the result.
package query

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
)

// DefaultResultLimit caps the number of rows a query may return so
// downstream rendering stays bounded.
const DefaultResultLimit = 10000

// dateWindow is the tolerance applied around a single-date constraint:
// floats surface on their own schedule, so an exact-day match would almost
// always be empty.
const dateWindow = 30 * 24 * time.Hour

// Stats summarizes one parameter over a result set.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Unit   string  `json:"unit"`
}

// Result is the filtered record set plus derived statistics. It is created
// per query, read-only, and discarded after rendering.
type Result struct {
	Rows      []argo.Measurement        `json:"-"`
	Count     int                       `json:"count"`
	Truncated bool                      `json:"truncated"`
	Stats     map[argo.Parameter]*Stats `json:"stats,omitempty"`
}

// Engine applies entity predicates over the read-only dataset.
type Engine struct {
	dataset *argo.Dataset
	limit   int
}

func NewEngine(dataset *argo.Dataset, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &Engine{dataset: dataset, limit: limit}
}

// Execute filters the table with every active predicate (AND semantics) and
// computes statistics over the surviving rows. A nil box means no spatial
// constraint. An empty result is valid, not an error.
func (e *Engine) Execute(ents argo.Entities, box *argo.BoundingBox) *Result {
	rows := make([]argo.Measurement, 0, 256)

	var windowStart, windowEnd time.Time
	switch {
	case ents.Date != nil:
		windowStart = ents.Date.Add(-dateWindow)
		windowEnd = ents.Date.Add(dateWindow)
	case ents.DateRange != nil:
		windowStart = ents.DateRange.Start
		windowEnd = ents.DateRange.End
	}

	for _, m := range e.dataset.Rows() {
		if ents.Parameter != argo.ParameterNone {
			if _, ok := m.Value(ents.Parameter); !ok {
				continue
			}
		}
		if box != nil && !box.Contains(m.Latitude, m.Longitude) {
			continue
		}
		if !windowStart.IsZero() {
			if m.Date.Before(windowStart) || m.Date.After(windowEnd) {
				continue
			}
		}
		if ents.DepthRange != nil {
			if m.Pressure < ents.DepthRange.Min || m.Pressure > ents.DepthRange.Max {
				continue
			}
		}
		rows = append(rows, m)
	}

	res := &Result{Rows: rows}
	if len(rows) > e.limit {
		// Keep the newest rows; stable sort preserves table order on ties
		// so the cap is deterministic.
		sort.SliceStable(res.Rows, func(i, j int) bool {
			return res.Rows[i].Date.After(res.Rows[j].Date.Time)
		})
		log.Printf("query: limiting result from %d to %d rows", len(res.Rows), e.limit)
		res.Rows = res.Rows[:e.limit]
		res.Truncated = true
	}
	res.Count = len(res.Rows)
	res.Stats = computeStats(res.Rows, ents.Parameter)
	return res
}

// computeStats summarizes the active parameter, or all parameters when none
// was requested. Parameters with no valid values are omitted, so an empty
// result yields an empty map rather than an error.
func computeStats(rows []argo.Measurement, active argo.Parameter) map[argo.Parameter]*Stats {
	params := argo.Parameters
	if active != argo.ParameterNone {
		params = []argo.Parameter{active}
	}

	out := make(map[argo.Parameter]*Stats, len(params))
	for _, p := range params {
		values := make([]float64, 0, len(rows))
		for _, m := range rows {
			if v, ok := m.Value(p); ok {
				values = append(values, v)
			}
		}
		if s := summarize(values); s != nil {
			s.Unit = p.Unit()
			out[p] = s
		}
	}
	return out
}

func summarize(values []float64) *Stats {
	n := len(values)
	if n == 0 {
		return nil
	}

	s := &Stats{Count: n, Min: values[0], Max: values[0]}

	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(n)

	if n > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		s.Std = math.Sqrt(sq / float64(n-1))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		s.Median = sorted[n/2]
	} else {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return s
}
