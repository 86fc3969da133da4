package extract

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
)

func TestKeywordExtractParameterAndLocation(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "Show me temperature data in the Arabian Sea")

	if ents.Parameter != argo.ParameterTemperature {
		t.Fatalf("expected temperature, got %q", ents.Parameter)
	}
	if ents.Location != "arabian sea" {
		t.Fatalf("expected arabian sea, got %q", ents.Location)
	}
	if ents.Date != nil || ents.DateRange != nil || ents.DepthRange != nil {
		t.Fatalf("expected no temporal or depth constraints, got %+v", ents)
	}
}

func TestKeywordExtractDepthRange(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "Salinity between 100-500 meters depth")

	if ents.Parameter != argo.ParameterSalinity {
		t.Fatalf("expected salinity, got %q", ents.Parameter)
	}
	if ents.DepthRange == nil {
		t.Fatal("expected a depth range")
	}
	if ents.DepthRange.Min != 100 || ents.DepthRange.Max != 500 {
		t.Fatalf("expected [100, 500], got [%v, %v]", ents.DepthRange.Min, ents.DepthRange.Max)
	}
}

func TestKeywordExtractBetweenPhrase(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "pressure between 50 and 200 meters")

	if ents.DepthRange == nil || ents.DepthRange.Min != 50 || ents.DepthRange.Max != 200 {
		t.Fatalf("expected [50, 200], got %+v", ents.DepthRange)
	}
}

func TestKeywordExtractYearRange(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "Temperature data from 2010 to 2015")

	if ents.DateRange == nil {
		t.Fatal("expected a date range")
	}
	wantStart := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC)
	if !ents.DateRange.Start.Equal(wantStart) || !ents.DateRange.End.Equal(wantEnd) {
		t.Fatalf("expected %v-%v, got %+v", wantStart, wantEnd, ents.DateRange)
	}
	if ents.Date != nil {
		t.Fatal("date and date range must not both be set")
	}
}

func TestKeywordExtractSingleYear(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "salinity in 2019")

	if ents.Date == nil {
		t.Fatal("expected a single date")
	}
	if !ents.Date.Equal(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 2019-01-01, got %v", ents.Date)
	}
	if ents.DateRange != nil {
		t.Fatal("date and date range must not both be set")
	}
}

func TestKeywordExtractISODates(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "temperature from 2015-03-01 to 2015-09-30")

	if ents.DateRange == nil {
		t.Fatal("expected a date range")
	}
	if ents.DateRange.Start.Format("2006-01-02") != "2015-03-01" ||
		ents.DateRange.End.Format("2006-01-02") != "2015-09-30" {
		t.Fatalf("unexpected range %+v", ents.DateRange)
	}
}

func TestKeywordExtractNothing(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "show me everything you have")

	if !ents.IsEmpty() {
		t.Fatalf("expected empty entities, got %+v", ents)
	}
}

func TestKeywordExtractIsDeterministic(t *testing.T) {
	e := NewKeywordExtractor()
	q := "Salinity near Madagascar between 100-500 m from 2010 to 2012"

	first := e.Extract(context.Background(), q)
	for i := 0; i < 10; i++ {
		if got := e.Extract(context.Background(), q); !reflect.DeepEqual(first, got) {
			t.Fatalf("extraction not deterministic: %+v vs %+v", first, got)
		}
	}
}

func TestKeywordExtractLongestRegionWins(t *testing.T) {
	e := NewKeywordExtractor()

	ents := e.Extract(context.Background(), "data in the Equatorial Indian Ocean")
	if ents.Location != "equatorial indian ocean" {
		t.Fatalf("expected equatorial indian ocean, got %q", ents.Location)
	}

	ents = e.Extract(context.Background(), "data in the indian ocean")
	if ents.Location != "indian ocean" {
		t.Fatalf("expected indian ocean, got %q", ents.Location)
	}
}
