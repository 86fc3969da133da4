package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/common"
)

// parameterSynonyms is scanned in order; the first hit wins so that
// "salinity at 200m depth" resolves to salinity rather than pressure.
var parameterSynonyms = []struct {
	param argo.Parameter
	words []string
}{
	{argo.ParameterTemperature, []string{"temperature", "temp", "thermal", "heat", "°c"}},
	{argo.ParameterSalinity, []string{"salinity", "salt", "saline", "psu"}},
	{argo.ParameterPressure, []string{"pressure", "depth", "deep", "dbar"}},
}

// locationAliases is ordered so that longer region names are matched before
// the shorter names they contain ("equatorial indian ocean" before
// "indian ocean" before "indian").
var locationAliases = []struct {
	canonical string
	words     []string
}{
	{"equatorial indian ocean", []string{"equatorial indian ocean"}},
	{"southern ocean", []string{"southern ocean"}},
	{"arabian sea", []string{"arabian sea", "arabia"}},
	{"bay of bengal", []string{"bay of bengal", "bengal"}},
	{"indian ocean", []string{"indian ocean", "indian"}},
	{"madagascar", []string{"madagascar"}},
	{"maldives", []string{"maldives"}},
	{"sri lanka", []string{"sri lanka", "ceylon"}},
}

var (
	isoDatePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	yearPattern    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	depthPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*(?:m\b|meter|metre)`)
	betweenPattern = regexp.MustCompile(`between\s+(\d+(?:\.\d+)?)\s+and\s+(\d+(?:\.\d+)?)\s*(?:m\b|meter|metre)`)
)

// KeywordExtractor is the deterministic rule-based extractor. It performs no
// I/O and always returns the same entities for the same input.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

func (e *KeywordExtractor) Extract(_ context.Context, query string) argo.Entities {
	q := strings.ToLower(query)

	var ents argo.Entities

	for _, ps := range parameterSynonyms {
		if common.ContainsAny(q, ps.words...) {
			ents.Parameter = ps.param
			break
		}
	}

	for _, la := range locationAliases {
		if common.ContainsAny(q, la.words...) {
			ents.Location = la.canonical
			break
		}
	}

	ents.Date, ents.DateRange = extractDates(q)
	ents.DepthRange = extractDepthRange(q)
	return ents
}

// extractDates returns either a single date or an inclusive range, never
// both. Explicit ISO dates take precedence over bare years.
func extractDates(q string) (*time.Time, *argo.DateRange) {
	if dates := isoDatePattern.FindAllString(q, -1); len(dates) > 0 {
		if len(dates) >= 2 {
			start, err1 := time.Parse("2006-01-02", dates[0])
			end, err2 := time.Parse("2006-01-02", dates[1])
			if err1 == nil && err2 == nil {
				return nil, &argo.DateRange{Start: start.UTC(), End: end.UTC()}
			}
		}
		if d, err := time.Parse("2006-01-02", dates[0]); err == nil {
			d = d.UTC()
			return &d, nil
		}
	}

	years := yearPattern.FindAllString(q, -1)
	if len(years) >= 2 {
		start, _ := time.Parse("2006-01-02", years[0]+"-01-01")
		end, _ := time.Parse("2006-01-02", years[1]+"-12-31")
		return nil, &argo.DateRange{Start: start.UTC(), End: end.UTC()}
	}
	if len(years) == 1 {
		d, _ := time.Parse("2006-01-02", years[0]+"-01-01")
		d = d.UTC()
		return &d, nil
	}

	return nil, nil
}

func extractDepthRange(q string) *argo.DepthRange {
	m := depthPattern.FindStringSubmatch(q)
	if m == nil {
		m = betweenPattern.FindStringSubmatch(q)
	}
	if m == nil {
		return nil
	}

	min, err1 := strconv.ParseFloat(m[1], 64)
	max, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &argo.DepthRange{Min: min, Max: max}
}
