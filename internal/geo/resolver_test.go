package geo

import (
	"context"
	"errors"
	"testing"
)

type fakeGeocoder struct {
	pt  Point
	err error
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (Point, error) {
	return f.pt, f.err
}

func TestResolveNamedRegions(t *testing.T) {
	r := NewResolver(nil, 0)

	cases := []struct {
		input string
		want  string
	}{
		{"Arabian Sea", "arabian sea"},
		{"  arabian sea  ", "arabian sea"},
		{"BAY OF BENGAL", "bay of bengal"},
		{"the equatorial indian ocean", "equatorial indian ocean"},
		{"Southern Ocean", "southern ocean"},
		{"waters around Madagascar", "madagascar"},
		{"Maldives", "maldives"},
		{"Sri Lanka", "sri lanka"},
		{"Indian Ocean", "indian ocean"},
	}

	for _, tc := range cases {
		region := r.Resolve(context.Background(), tc.input)
		if region == nil {
			t.Fatalf("expected a region for %q", tc.input)
		}
		if region.Name != tc.want {
			t.Fatalf("expected %q for input %q, got %q", tc.want, tc.input, region.Name)
		}
		if region.Geocoded {
			t.Fatalf("named region %q must not be marked geocoded", tc.input)
		}
	}
}

func TestResolveRegionIsStable(t *testing.T) {
	r := NewResolver(nil, 0)

	first := r.Resolve(context.Background(), "Arabian Sea")
	second := r.Resolve(context.Background(), "arabian sea")
	if first == nil || second == nil {
		t.Fatal("expected regions")
	}
	if first.Box != second.Box {
		t.Fatalf("bounding boxes differ: %+v vs %+v", first.Box, second.Box)
	}
}

func TestResolveUnknownWithoutGeocoder(t *testing.T) {
	r := NewResolver(nil, 0)

	if region := r.Resolve(context.Background(), "atlantis"); region != nil {
		t.Fatalf("expected nil region, got %+v", region)
	}
}

func TestResolveEmptyLocation(t *testing.T) {
	r := NewResolver(&fakeGeocoder{}, 0)

	if region := r.Resolve(context.Background(), "   "); region != nil {
		t.Fatalf("expected nil region for blank input, got %+v", region)
	}
}

func TestResolveGeocodedPoint(t *testing.T) {
	gc := &fakeGeocoder{pt: Point{Lat: -20, Lon: 57.5}}
	r := NewResolver(gc, 2)

	region := r.Resolve(context.Background(), "Mauritius")
	if region == nil {
		t.Fatal("expected a region")
	}
	if !region.Geocoded {
		t.Fatal("expected the region to be marked geocoded")
	}
	box := region.Box
	if box.LatMin != -22 || box.LatMax != -18 || box.LonMin != 55.5 || box.LonMax != 59.5 {
		t.Fatalf("unexpected box %+v", box)
	}
}

func TestResolveGeocoderFailure(t *testing.T) {
	gc := &fakeGeocoder{err: errors.New("no network")}
	r := NewResolver(gc, 2)

	if region := r.Resolve(context.Background(), "Mauritius"); region != nil {
		t.Fatalf("expected nil region on geocoder failure, got %+v", region)
	}
}
