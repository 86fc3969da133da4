package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/query"
)

func fp(v float64) *float64 { return &v }

func sampleResult() *query.Result {
	rows := []argo.Measurement{
		{FloatID: "f1", Date: argo.DateTime{Time: time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)}, Temperature: fp(26), Pressure: 10},
		{FloatID: "f2", Date: argo.DateTime{Time: time.Date(2014, 8, 1, 0, 0, 0, 0, time.UTC)}, Temperature: fp(28), Pressure: 20},
	}
	return &query.Result{
		Rows:  rows,
		Count: len(rows),
		Stats: map[argo.Parameter]*query.Stats{
			argo.ParameterTemperature: {Count: 2, Mean: 27, Std: 1.41, Min: 26, Max: 28, Median: 27, Unit: "°C"},
		},
	}
}

func TestSummarizeEmptyResult(t *testing.T) {
	s := NewSummarizer(nil)

	cases := []struct {
		ents argo.Entities
		want string
	}{
		{argo.Entities{Parameter: argo.ParameterTemperature, Location: "arabian sea"}, "No temperature measurements were found in arabian sea"},
		{argo.Entities{Parameter: argo.ParameterSalinity}, "No salinity measurements match"},
		{argo.Entities{Location: "maldives"}, "No measurements were found in maldives"},
		{argo.Entities{}, "didn't match any data"},
	}

	for _, tc := range cases {
		got := s.Summarize(context.Background(), &query.Result{}, tc.ents)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("summary %q does not contain %q", got, tc.want)
		}
	}
}

func TestSummarizeRuleBased(t *testing.T) {
	s := NewSummarizer(nil)
	ents := argo.Entities{Parameter: argo.ParameterTemperature, Location: "arabian sea"}

	got := s.Summarize(context.Background(), sampleResult(), ents)

	if !strings.Contains(got, "2 temperature measurements") {
		t.Fatalf("missing query context in %q", got)
	}
	if !strings.Contains(got, "27.00°C") {
		t.Fatalf("missing statistics in %q", got)
	}
	if !strings.Contains(got, "ARGO float") {
		t.Fatalf("missing coverage in %q", got)
	}
}

type fakeEnhancer struct {
	out string
	err error
}

func (f *fakeEnhancer) Complete(_ context.Context, _ string) (string, error) {
	return f.out, f.err
}

func TestSummarizeUsesEnhancer(t *testing.T) {
	long := strings.Repeat("Enhanced analysis of the requested ocean conditions. ", 3)
	s := NewSummarizer(&fakeEnhancer{out: long})

	got := s.Summarize(context.Background(), sampleResult(), argo.Entities{Parameter: argo.ParameterTemperature})

	if got != strings.TrimSpace(long) {
		t.Fatalf("expected the enhanced text, got %q", got)
	}
}

func TestSummarizeFallsBackOnEnhancerError(t *testing.T) {
	s := NewSummarizer(&fakeEnhancer{err: errors.New("backend down")})

	got := s.Summarize(context.Background(), sampleResult(), argo.Entities{Parameter: argo.ParameterTemperature})

	if !strings.Contains(got, "temperature observations") {
		t.Fatalf("expected the rule-based text, got %q", got)
	}
}

func TestSummarizeIgnoresShortEnhancement(t *testing.T) {
	s := NewSummarizer(&fakeEnhancer{out: "ok"})

	got := s.Summarize(context.Background(), sampleResult(), argo.Entities{Parameter: argo.ParameterTemperature})

	if got == "ok" {
		t.Fatal("short enhancements must be discarded")
	}
}
