// Package geo resolves location entities to spatial constraints: a static
// table of named ocean regions first, then an external geocoding lookup.
package geo

import (
	"context"
	"log"
	"strings"

	"github.com/floatchat/floatchat/internal/argo"
)

// DefaultRadiusDeg is the half-width, in degrees, of the bounding box built
// around a geocoded point.
const DefaultRadiusDeg = 2.0

// Region is a location entity resolved to a bounding box. Created per query
// and discarded after filtering.
type Region struct {
	Name     string           `json:"name"`
	Box      argo.BoundingBox `json:"box"`
	Geocoded bool             `json:"geocoded"`
}

// Point is a geocoded coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Geocoder maps a free-text place name to its best-matching point.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Point, error)
}

// regionBounds maps named ocean regions to fixed bounding boxes. Ordered so
// longer names match before the shorter names they contain.
var regionBounds = []struct {
	name string
	box  argo.BoundingBox
}{
	{"equatorial indian ocean", argo.BoundingBox{LatMin: -10, LatMax: 10, LonMin: 40, LonMax: 100}},
	{"southern ocean", argo.BoundingBox{LatMin: -70, LatMax: -40, LonMin: -180, LonMax: 180}},
	{"arabian sea", argo.BoundingBox{LatMin: 10, LatMax: 25, LonMin: 50, LonMax: 80}},
	{"bay of bengal", argo.BoundingBox{LatMin: 5, LatMax: 22, LonMin: 80, LonMax: 100}},
	{"indian ocean", argo.BoundingBox{LatMin: -50, LatMax: 30, LonMin: 20, LonMax: 147}},
	{"madagascar", argo.BoundingBox{LatMin: -26, LatMax: -11, LonMin: 43, LonMax: 51}},
	{"maldives", argo.BoundingBox{LatMin: -1, LatMax: 8, LonMin: 72, LonMax: 74}},
	{"sri lanka", argo.BoundingBox{LatMin: 5, LatMax: 10, LonMin: 79, LonMax: 82}},
}

// Resolver resolves location strings. A nil geocoder disables the dynamic
// lookup, leaving only the static region table.
type Resolver struct {
	geocoder Geocoder
	radius   float64
}

func NewResolver(geocoder Geocoder, radiusDeg float64) *Resolver {
	if radiusDeg <= 0 {
		radiusDeg = DefaultRadiusDeg
	}
	return &Resolver{geocoder: geocoder, radius: radiusDeg}
}

// Resolve returns the region for a location string, or nil when the location
// cannot be resolved. A nil region means "no spatial constraint" and is not
// an error: the caller proceeds without spatial filtering.
func (r *Resolver) Resolve(ctx context.Context, location string) *Region {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return nil
	}

	for _, rb := range regionBounds {
		if strings.Contains(loc, rb.name) {
			return &Region{Name: rb.name, Box: rb.box}
		}
	}

	if r.geocoder == nil {
		return nil
	}

	pt, err := r.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Printf("geo: geocoding failed for %q, proceeding without spatial filter: %v", location, err)
		return nil
	}

	return &Region{
		Name: loc,
		Box: argo.BoundingBox{
			LatMin: pt.Lat - r.radius,
			LatMax: pt.Lat + r.radius,
			LonMin: pt.Lon - r.radius,
			LonMax: pt.Lon + r.radius,
		},
		Geocoded: true,
	}
}
