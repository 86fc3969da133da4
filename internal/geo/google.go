package geo

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// GoogleGeocoder resolves free-text place names through the Google Maps
// geocoding API. The upstream client has no context support; the request is
// bounded by its own HTTP timeout, and any failure simply means no spatial
// constraint for the query.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the shared geocoder API key and returns the
// capability. The key must be non-empty.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, place string) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: place})
	if err != nil {
		return Point{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	return Point{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
