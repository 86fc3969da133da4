package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/floatchat/floatchat/internal/api/http"
	"github.com/floatchat/floatchat/internal/argo"
	"github.com/floatchat/floatchat/internal/config"
	"github.com/floatchat/floatchat/internal/extract"
	"github.com/floatchat/floatchat/internal/extract/llm"
	"github.com/floatchat/floatchat/internal/geo"
	"github.com/floatchat/floatchat/internal/query"
	"github.com/floatchat/floatchat/internal/scheduler"
	"github.com/floatchat/floatchat/internal/store"
	"github.com/floatchat/floatchat/internal/summary"
	"github.com/floatchat/floatchat/internal/viz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The measurement table must exist before the server can answer anything.
	if _, err := os.Stat(cfg.DatasetPath); err != nil {
		log.Fatalf("dataset not found at %s; run the data consolidation step to produce it, then restart", cfg.DatasetPath)
	}
	dataset, err := argo.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	// Shared HTTP client for outbound LLM calls.
	httpClient := &http.Client{
		Timeout: cfg.LLMTimeout,
	}

	// Extraction: keyword path is always available; the LLM path wraps it
	// and falls back to it on any failure.
	keyword := extract.NewKeywordExtractor()

	var (
		extractor extract.Extractor = keyword
		client    extract.Client
	)
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		client = llm.NewOllama(httpClient, cfg.LLMBaseURL, cfg.LLMModel)
	case config.ProviderOpenAI:
		client = llm.NewOpenAI(httpClient, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
	case config.ProviderOff:
		log.Println("LLM extraction disabled; using keyword extraction only")
	}

	var llmExtractor *extract.LLMExtractor
	if client != nil {
		llmExtractor = extract.NewLLMExtractor(client, keyword)
		extractor = llmExtractor
	}

	// Geocoding is optional; without a key the resolver only knows the
	// static region table.
	var geocoder geo.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geocoder = geo.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	resolver := geo.NewResolver(geocoder, cfg.GeocodeRadiusDeg)

	engine := query.NewEngine(dataset, cfg.ResultLimit)
	charts := viz.NewBuilder(cfg.MapPointBudget)

	var enhancer summary.Enhancer
	if client != nil {
		enhancer = client
	}
	summarizer := summary.NewSummarizer(enhancer)

	history := store.NewHistoryStore(cfg.HistoryMax)

	// Periodic probe keeps the extractor's availability flag fresh so a dead
	// backend does not slow every query down.
	if llmExtractor != nil {
		sched := scheduler.New(client, cfg.LLMProbeInterval, llmExtractor.SetAvailable)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "floatchat",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "floatchat",
			"records": dataset.Len(),
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Dataset:    dataset,
		Extractor:  extractor,
		Resolver:   resolver,
		Engine:     engine,
		Charts:     charts,
		Summarizer: summarizer,
		History:    history,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
