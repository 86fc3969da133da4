package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/extract"
	"github.com/floatchat/floatchat/internal/geo"
	"github.com/floatchat/floatchat/internal/query"
	"github.com/floatchat/floatchat/internal/store"
	"github.com/floatchat/floatchat/internal/summary"
	"github.com/floatchat/floatchat/internal/viz"
)

var validate = validator.New()

// Deps carries the collaborators the query routes need.
type Deps struct {
	Dataset    *argo.Dataset
	Extractor  extract.Extractor
	Resolver   *geo.Resolver
	Engine     *query.Engine
	Charts     *viz.Builder
	Summarizer *summary.Summarizer
	History    *store.HistoryStore
}

// queryRequest is the chat input. Chart is optional; when set, only that
// chart spec is returned.
type queryRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	Chart string `json:"chart" validate:"omitempty,oneof=map time-series depth-profile"`
}

type chartSet struct {
	Map          *viz.MapSpec        `json:"map,omitempty"`
	TimeSeries   *viz.TimeSeriesSpec `json:"timeSeries,omitempty"`
	DepthProfile *viz.ProfileSpec    `json:"depthProfile,omitempty"`
}

type queryResponse struct {
	Query     string                          `json:"query"`
	Entities  argo.Entities                   `json:"entities"`
	Region    *geo.Region                     `json:"region,omitempty"`
	Note      string                          `json:"note,omitempty"`
	Count     int                             `json:"count"`
	Truncated bool                            `json:"truncated"`
	Stats     map[argo.Parameter]*query.Stats `json:"stats,omitempty"`
	Summary   string                          `json:"summary"`
	Charts    chartSet                        `json:"charts"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/query", func(c *fiber.Ctx) error {
		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp := handleQuery(c.UserContext(), deps, req)
		return c.JSON(resp)
	})

	v1.Get("/dataset", func(c *fiber.Ctx) error {
		return c.JSON(deps.Dataset.Summarize())
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"queries": deps.History.All(),
		})
	})
}

// handleQuery runs one query start to finish: extract, resolve, filter,
// summarize, build charts, record history.
func handleQuery(ctx context.Context, deps Deps, req queryRequest) queryResponse {
	ents := deps.Extractor.Extract(ctx, req.Query)

	var (
		region *geo.Region
		box    *argo.BoundingBox
		note   string
	)
	if ents.Location != "" {
		region = deps.Resolver.Resolve(ctx, ents.Location)
		if region == nil {
			note = fmt.Sprintf("location %q not recognized; showing results without a spatial filter", ents.Location)
		} else {
			box = &region.Box
		}
	}

	res := deps.Engine.Execute(ents, box)
	text := deps.Summarizer.Summarize(ctx, res, ents)

	resp := queryResponse{
		Query:     req.Query,
		Entities:  ents,
		Region:    region,
		Note:      note,
		Count:     res.Count,
		Truncated: res.Truncated,
		Stats:     res.Stats,
		Summary:   text,
	}
	resp.Charts = buildCharts(deps.Charts, res, ents.Parameter, req.Chart)

	deps.History.Append(store.QueryRecord{
		Query:    req.Query,
		Entities: ents,
		Count:    res.Count,
		Summary:  text,
		AskedAt:  time.Now().UTC(),
	})

	return resp
}

// buildCharts returns the requested chart, or the default set: always a map,
// plus time series and depth profile when a parameter was extracted.
func buildCharts(b *viz.Builder, res *query.Result, param argo.Parameter, selected string) chartSet {
	switch viz.ChartType(selected) {
	case viz.ChartMap:
		return chartSet{Map: b.Map(res, param)}
	case viz.ChartTimeSeries:
		return chartSet{TimeSeries: b.TimeSeries(res, param)}
	case viz.ChartDepthProfile:
		return chartSet{DepthProfile: b.DepthProfile(res, param)}
	}

	set := chartSet{Map: b.Map(res, param)}
	if param != argo.ParameterNone {
		set.TimeSeries = b.TimeSeries(res, param)
		set.DepthProfile = b.DepthProfile(res, param)
	}
	return set
}
