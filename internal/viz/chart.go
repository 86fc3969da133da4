// Package viz turns filtered result sets into renderable chart
// specifications. The specs are plain data: the UI layer feeds them to its
// charting library, so nothing here draws anything.
package viz

import (
	"fmt"
	"sort"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/query"
)

// ChartType selects a visualization style.
type ChartType string

const (
	ChartMap          ChartType = "map"
	ChartTimeSeries   ChartType = "time-series"
	ChartDepthProfile ChartType = "depth-profile"
)

// DefaultPointBudget bounds how many points a map spec may carry so the
// rendered map stays interactive.
const DefaultPointBudget = 5000

// Coord is a map center coordinate.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapPoint is one plotted measurement.
type MapPoint struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Value   *float64 `json:"value,omitempty"`
	Date    string   `json:"date"`
	FloatID string   `json:"floatId"`
}

// MapSpec describes a geographic scatter of measurements.
type MapSpec struct {
	Type        ChartType      `json:"type"`
	Title       string         `json:"title"`
	Parameter   argo.Parameter `json:"parameter,omitempty"`
	Unit        string         `json:"unit,omitempty"`
	Points      []MapPoint     `json:"points"`
	Center      *Coord         `json:"center,omitempty"`
	Downsampled bool           `json:"downsampled"`
	Message     string         `json:"message,omitempty"`
}

// SeriesPoint is one value in a time series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is the time-ordered values of one float.
type Series struct {
	FloatID string        `json:"floatId"`
	Points  []SeriesPoint `json:"points"`
}

// TimeSeriesSpec describes a parameter plotted over time, one line per float.
type TimeSeriesSpec struct {
	Type      ChartType      `json:"type"`
	Title     string         `json:"title"`
	Parameter argo.Parameter `json:"parameter"`
	Unit      string         `json:"unit"`
	Series    []Series       `json:"series"`
	Message   string         `json:"message,omitempty"`
}

// ProfilePoint is one value plotted against pressure.
type ProfilePoint struct {
	Value    float64 `json:"value"`
	Pressure float64 `json:"pressure"`
	FloatID  string  `json:"floatId"`
}

// ProfileSpec describes a parameter-versus-depth scatter. InvertY reminds
// the renderer that depth increases downward.
type ProfileSpec struct {
	Type      ChartType      `json:"type"`
	Title     string         `json:"title"`
	Parameter argo.Parameter `json:"parameter"`
	Unit      string         `json:"unit"`
	Points    []ProfilePoint `json:"points"`
	InvertY   bool           `json:"invertY"`
	Message   string         `json:"message,omitempty"`
}

// Builder assembles chart specs from query results.
type Builder struct {
	pointBudget int
}

func NewBuilder(pointBudget int) *Builder {
	if pointBudget <= 0 {
		pointBudget = DefaultPointBudget
	}
	return &Builder{pointBudget: pointBudget}
}

// Map builds a geographic scatter spec. Large results are downsampled to the
// point budget by taking every k-th row, which is deterministic for a given
// result.
func (b *Builder) Map(res *query.Result, param argo.Parameter) *MapSpec {
	spec := &MapSpec{Type: ChartMap, Parameter: param, Unit: param.Unit()}

	if res.Count == 0 {
		spec.Title = "Ocean Data Visualization"
		spec.Message = "No data found for the requested query"
		spec.Points = []MapPoint{}
		return spec
	}

	rows := res.Rows
	if len(rows) > b.pointBudget {
		sampled := make([]argo.Measurement, 0, b.pointBudget)
		step := (len(rows) + b.pointBudget - 1) / b.pointBudget
		for i := 0; i < len(rows); i += step {
			sampled = append(sampled, rows[i])
		}
		rows = sampled
		spec.Downsampled = true
	}

	var sumLat, sumLon float64
	spec.Points = make([]MapPoint, 0, len(rows))
	for _, m := range rows {
		pt := MapPoint{
			Lat:     m.Latitude,
			Lon:     m.Longitude,
			Date:    m.Date.Format("2006-01-02"),
			FloatID: m.FloatID,
		}
		if param != argo.ParameterNone {
			if v, ok := m.Value(param); ok {
				v := v
				pt.Value = &v
			}
		}
		sumLat += m.Latitude
		sumLon += m.Longitude
		spec.Points = append(spec.Points, pt)
	}

	spec.Center = &Coord{
		Lat: sumLat / float64(len(rows)),
		Lon: sumLon / float64(len(rows)),
	}
	spec.Title = mapTitle(param, res.Count)
	return spec
}

// TimeSeries builds a per-float time series of the parameter, dates
// ascending. The full result set is used; no downsampling.
func (b *Builder) TimeSeries(res *query.Result, param argo.Parameter) *TimeSeriesSpec {
	spec := &TimeSeriesSpec{
		Type:      ChartTimeSeries,
		Parameter: param,
		Unit:      param.Unit(),
		Title:     fmt.Sprintf("%s Over Time", param.DisplayName()),
	}

	byFloat := make(map[string][]SeriesPoint)
	for _, m := range res.Rows {
		v, ok := m.Value(param)
		if !ok {
			continue
		}
		byFloat[m.FloatID] = append(byFloat[m.FloatID], SeriesPoint{Date: m.Date.Time, Value: v})
	}

	if len(byFloat) == 0 {
		spec.Message = "No valid time series data available"
		spec.Series = []Series{}
		return spec
	}

	ids := make([]string, 0, len(byFloat))
	for id := range byFloat {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	spec.Series = make([]Series, 0, len(ids))
	for _, id := range ids {
		points := byFloat[id]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		spec.Series = append(spec.Series, Series{FloatID: id, Points: points})
	}
	return spec
}

// DepthProfile builds a parameter-versus-pressure scatter from the full
// result set.
func (b *Builder) DepthProfile(res *query.Result, param argo.Parameter) *ProfileSpec {
	spec := &ProfileSpec{
		Type:      ChartDepthProfile,
		Parameter: param,
		Unit:      param.Unit(),
		Title:     fmt.Sprintf("%s Depth Profile", param.DisplayName()),
		InvertY:   true,
	}

	spec.Points = make([]ProfilePoint, 0, res.Count)
	for _, m := range res.Rows {
		if v, ok := m.Value(param); ok {
			spec.Points = append(spec.Points, ProfilePoint{Value: v, Pressure: m.Pressure, FloatID: m.FloatID})
		}
	}
	if len(spec.Points) == 0 {
		spec.Message = "No valid depth profile data available"
	}
	return spec
}

func mapTitle(param argo.Parameter, count int) string {
	if param != argo.ParameterNone {
		return fmt.Sprintf("%s Distribution (%d measurements)", param.DisplayName(), count)
	}
	return fmt.Sprintf("Ocean Float Data Locations (%d points)", count)
}
