package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
)

const entityPrompt = `Analyze this oceanographic data query and extract structured filters.

Query: %q

Respond with a single JSON object and nothing else, using exactly these keys
(use null for anything the query does not mention):
{
  "parameter": "temperature" | "salinity" | "pressure" | null,
  "location": "<place name>" | null,
  "date": "YYYY-MM-DD" | null,
  "date_range": {"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"} | null,
  "depth_range": {"min": <meters>, "max": <meters>} | null
}`

// LLMExtractor extracts entities through a text-completion backend. Every
// failure mode (unreachable backend, bad status, unparseable completion)
// silently degrades to the keyword extractor so callers always get a result.
type LLMExtractor struct {
	client    Client
	fallback  *KeywordExtractor
	available atomic.Bool
}

func NewLLMExtractor(client Client, fallback *KeywordExtractor) *LLMExtractor {
	e := &LLMExtractor{client: client, fallback: fallback}
	// Assume reachable until a probe says otherwise.
	e.available.Store(true)
	return e
}

// SetAvailable records the backend's last known reachability. The periodic
// probe calls this so queries skip a dead backend without paying its timeout.
func (e *LLMExtractor) SetAvailable(ok bool) {
	e.available.Store(ok)
}

func (e *LLMExtractor) Available() bool {
	return e.available.Load()
}

func (e *LLMExtractor) Extract(ctx context.Context, query string) argo.Entities {
	if !e.Available() {
		return e.fallback.Extract(ctx, query)
	}

	completion, err := e.client.Complete(ctx, fmt.Sprintf(entityPrompt, query))
	if err != nil {
		log.Printf("extract: %s completion failed, using keyword fallback: %v", e.client.Name(), err)
		return e.fallback.Extract(ctx, query)
	}

	ents, err := parseCompletion(completion)
	if err != nil {
		log.Printf("extract: unparseable %s completion, using keyword fallback: %v", e.client.Name(), err)
		return e.fallback.Extract(ctx, query)
	}
	return ents
}

type completionPayload struct {
	Parameter string `json:"parameter"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	DateRange *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date_range"`
	DepthRange *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"depth_range"`
}

// parseCompletion pulls the first JSON object out of the completion text and
// maps it onto query entities. Models often wrap the object in prose, so
// everything outside the outermost braces is ignored.
func parseCompletion(text string) (argo.Entities, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return argo.Entities{}, fmt.Errorf("no JSON object in completion")
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return argo.Entities{}, fmt.Errorf("decode completion: %w", err)
	}

	var ents argo.Entities
	ents.Parameter = normalizeParameter(payload.Parameter)

	if loc := cleanField(payload.Location); loc != "" {
		ents.Location = loc
	}

	if payload.DateRange != nil {
		start, err1 := parseDay(payload.DateRange.Start)
		end, err2 := parseDay(payload.DateRange.End)
		if err1 == nil && err2 == nil {
			ents.DateRange = &argo.DateRange{Start: start, End: end}
		}
	}

	// Date and DateRange are mutually exclusive; a range wins.
	if ents.DateRange == nil {
		if d, err := parseDay(payload.Date); err == nil {
			ents.Date = &d
		}
	}

	if payload.DepthRange != nil && payload.DepthRange.Max >= payload.DepthRange.Min {
		ents.DepthRange = &argo.DepthRange{Min: payload.DepthRange.Min, Max: payload.DepthRange.Max}
	}

	return ents, nil
}

// normalizeParameter folds model output like "temp" or "Temperature" onto
// the canonical parameter names, via the same synonym table the keyword
// extractor uses.
func normalizeParameter(s string) argo.Parameter {
	s = cleanField(s)
	if s == "" {
		return argo.ParameterNone
	}
	for _, ps := range parameterSynonyms {
		for _, w := range ps.words {
			if strings.Contains(s, w) {
				return ps.param
			}
		}
	}
	return argo.ParameterNone
}

// cleanField trims model filler such as "none" or "null" from a string field.
func cleanField(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" || s == "null" || s == "n/a" {
		return ""
	}
	return s
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", cleanField(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
