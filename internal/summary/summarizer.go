// Package summary produces the natural-language digest shown next to query
// results: a rule-based text assembled from statistics and coverage, with an
// optional LLM rewrite layered on top.
package summary

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/query"
)

// Enhancer rewrites a rule-based summary through a text-completion backend.
type Enhancer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// locationContext adds a descriptive clause for the known regions.
var locationContext = map[string]string{
	"arabian sea":   "a marginal sea of the northern Indian Ocean",
	"bay of bengal": "the northeastern part of the Indian Ocean",
	"indian ocean":  "the third-largest ocean covering about 20% of Earth's water surface",
	"madagascar":    "the area around the large island nation off the east coast of Africa",
	"maldives":      "the tropical archipelago in the Indian Ocean",
	"sri lanka":     "the waters around the island nation south of India",
}

// Summarizer generates result summaries. The enhancer is optional; when it
// is nil or fails, the rule-based text is used as-is.
type Summarizer struct {
	enhancer Enhancer
}

func NewSummarizer(enhancer Enhancer) *Summarizer {
	return &Summarizer{enhancer: enhancer}
}

// Summarize describes a query result in plain language. It never fails:
// enhancement errors fall back to the rule-based text silently.
func (s *Summarizer) Summarize(ctx context.Context, res *query.Result, ents argo.Entities) string {
	if res.Count == 0 {
		return emptySummary(ents)
	}

	text := s.ruleBased(res, ents)

	if s.enhancer != nil {
		if enhanced, err := s.enhancer.Complete(ctx, enhancePrompt(text, res, ents)); err == nil {
			enhanced = strings.TrimSpace(enhanced)
			if len(enhanced) > 50 {
				return enhanced
			}
		} else {
			log.Printf("summary: enhancement failed, using rule-based text: %v", err)
		}
	}
	return text
}

func (s *Summarizer) ruleBased(res *query.Result, ents argo.Entities) string {
	parts := []string{queryContext(ents, res.Count)}

	if st, ok := res.Stats[ents.Parameter]; ok && ents.Parameter != argo.ParameterNone {
		parts = append(parts, fmt.Sprintf(
			"%s averages %.2f%s (±%.2f standard deviation), ranging from %.2f to %.2f%s.",
			ents.Parameter.DisplayName(), st.Mean, st.Unit, st.Std, st.Min, st.Max, st.Unit))
	}

	if cov := coverage(res.Rows); cov != "" {
		parts = append(parts, cov)
	}

	return strings.Join(parts, " ")
}

func queryContext(ents argo.Entities, count int) string {
	switch {
	case ents.Parameter != argo.ParameterNone && ents.Location != "":
		desc := ents.Location
		if ctxDesc, ok := locationContext[strings.ToLower(ents.Location)]; ok {
			desc = ctxDesc
		}
		return fmt.Sprintf("Analysis of %d %s measurements from the ARGO float network in %s.",
			count, strings.ToLower(ents.Parameter.DisplayName()), desc)
	case ents.Parameter != argo.ParameterNone:
		return fmt.Sprintf("Analysis of %d %s observations collected through the ARGO float network.",
			count, strings.ToLower(ents.Parameter.DisplayName()))
	default:
		return fmt.Sprintf("Analysis of %d oceanographic measurements from the ARGO monitoring network.", count)
	}
}

func coverage(rows []argo.Measurement) string {
	if len(rows) == 0 {
		return ""
	}

	start, end := rows[0].Date.Time, rows[0].Date.Time
	floats := make(map[string]struct{})
	for _, m := range rows {
		if m.Date.Before(start) {
			start = m.Date.Time
		}
		if m.Date.After(end) {
			end = m.Date.Time
		}
		floats[m.FloatID] = struct{}{}
	}

	years := end.Sub(start).Hours() / (24 * 365.25)
	var span string
	if years >= 1 {
		span = fmt.Sprintf("The data spans %.1f years (%d-%d)", years, start.Year(), end.Year())
	} else {
		span = fmt.Sprintf("The data covers %d days in %d", int(end.Sub(start).Hours()/24), start.Year())
	}

	plural := "s"
	if len(floats) == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s across %d ARGO float%s.", span, len(floats), plural)
}

// emptySummary mirrors the guidance shown when a query matches nothing.
func emptySummary(ents argo.Entities) string {
	switch {
	case ents.Parameter != argo.ParameterNone && ents.Location != "":
		return fmt.Sprintf("No %s measurements were found in %s. Try expanding your search area or checking different time periods.",
			ents.Parameter, ents.Location)
	case ents.Parameter != argo.ParameterNone:
		return fmt.Sprintf("No %s measurements match your query criteria. The filters may be too restrictive.",
			ents.Parameter)
	case ents.Location != "":
		return fmt.Sprintf("No measurements were found in %s. This location may be outside the dataset coverage area.",
			ents.Location)
	default:
		return "Your query didn't match any data. Please try different search terms or broaden your criteria."
	}
}

func enhancePrompt(ruleText string, res *query.Result, ents argo.Entities) string {
	param := "ocean conditions"
	if ents.Parameter != argo.ParameterNone {
		param = string(ents.Parameter)
	}
	loc := ents.Location
	if loc == "" {
		loc = "global coverage"
	}
	return fmt.Sprintf(`Rewrite this ocean data analysis as a short professional summary for maritime and environmental decision-makers. Keep every number accurate.

Dataset: %d measurements from the ARGO oceanographic monitoring network
Parameter: %s
Location: %s

Draft: %s`, res.Count, param, loc, ruleText)
}
