package extract

import (
	"context"

	"github.com/floatchat/floatchat/internal/argo"
)

// Extractor turns a free-text query into structured query entities. An
// extractor never fails: implementations that depend on external services
// must degrade to a deterministic result instead of returning an error.
type Extractor interface {
	Extract(ctx context.Context, query string) argo.Entities
}

// Client abstracts a text-completion backend (e.g. a local Ollama server or
// a hosted OpenAI-compatible API).
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	// Ping issues a minimal request to check the backend is reachable.
	Ping(ctx context.Context) error
}
