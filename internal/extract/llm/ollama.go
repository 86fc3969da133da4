package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
)

// Ollama talks to a local Ollama server's generate endpoint.
type Ollama struct {
	name    string
	model   string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOllama(client *http.Client, baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Ollama{
		name:    "ollama",
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: newBreaker("ollama"),
	}
}

func (o *Ollama) Name() string {
	return o.name
}

func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if resp.Response == "" {
		return "", fmt.Errorf("ollama returned an empty completion")
	}
	return resp.Response, nil
}

// Ping sends a minimal prompt to verify the server and model respond.
func (o *Ollama) Ping(ctx context.Context) error {
	resp, err := o.generate(ctx, "Test")
	if err != nil {
		return err
	}
	if !resp.Done {
		return fmt.Errorf("ollama did not complete the probe request")
	}
	return nil
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (o *Ollama) generate(ctx context.Context, prompt string) (ollamaResponse, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return ollamaResponse{}, err
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, o.httpCfg, o.circuit, buildRequest)
	if err != nil {
		return ollamaResponse{}, err
	}
	defer resp.Body.Close()

	var payload ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ollamaResponse{}, fmt.Errorf("decode ollama response: %w", err)
	}
	return payload, nil
}
