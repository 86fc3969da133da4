package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider selects which LLM backend handles entity extraction.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	// ProviderOff disables LLM extraction; only the keyword path runs.
	ProviderOff Provider = "off"
)

type AppConfig struct {
	// DatasetPath points at the consolidated measurement table. The file
	// must exist at startup.
	DatasetPath string

	// LLM backend selection.
	LLMProvider      Provider
	LLMModel         string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMTimeout       time.Duration
	LLMProbeInterval time.Duration

	// Geocoding; an empty key disables the dynamic lookup.
	GeocoderAPIKey   string
	GeocodeRadiusDeg float64

	// Result and rendering limits.
	ResultLimit    int
	MapPointBudget int
	HistoryMax     int

	HTTPTimeout time.Duration
	Port        string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DatasetPath = getenvDefault("DATASET_PATH", "processed_data/master_dataset.csv")

	switch p := Provider(getenvDefault("LLM_PROVIDER", "ollama")); p {
	case ProviderOllama, ProviderOpenAI, ProviderOff:
		cfg.LLMProvider = p
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q: want ollama, openai, or off", p)
	}
	cfg.LLMModel = getenvDefault("LLM_MODEL", "gemma2:2b")
	cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")

	var err error
	if cfg.LLMTimeout, err = getenvDuration("LLM_TIMEOUT", "8s"); err != nil {
		return nil, err
	}
	if cfg.LLMProbeInterval, err = getenvDuration("LLM_PROBE_INTERVAL", "1m"); err != nil {
		return nil, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.GeocodeRadiusDeg = getenvFloat("GEOCODE_RADIUS_DEG", 2.0)

	cfg.ResultLimit = getenvInt("RESULT_LIMIT", 10000)
	cfg.MapPointBudget = getenvInt("MAP_POINT_BUDGET", 5000)
	cfg.HistoryMax = getenvInt("HISTORY_MAX", 100)

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
