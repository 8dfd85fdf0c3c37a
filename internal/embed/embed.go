// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package embed provides the Embedder contract and its concrete adapters:
// a mock (deterministic, no network), an Ollama client, and an OpenAI
// client, plus an LRU-caching decorator any of them can be wrapped in.
package embed

import (
	"context"

	"github.com/northbound/websearch/internal/apperr"
)

// Embedder generates vector embeddings from text. Model() and Model's
// declared Dimension() must be stable for the lifetime of a given vector
// store path; changing either requires a reset per spec §6.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// Config selects and parameterizes an Embedder.
type Config struct {
	Provider  string // "mock", "ollama", "openai"
	Model     string
	OllamaURL string
	OpenAIKey string
	MockDim   int
}

// Build constructs the Embedder named by cfg.Provider.
func Build(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "", "mock":
		dim := cfg.MockDim
		if dim <= 0 {
			dim = 384
		}
		return NewMockEmbedder(dim), nil
	case "ollama":
		baseURL := cfg.OllamaURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(baseURL, model), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, apperr.New(apperr.KindInvalidInput, "openai embedder requires an api key", nil)
		}
		model := cfg.Model
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIEmbedder(cfg.OpenAIKey, model), nil
	default:
		return nil, apperr.New(apperr.KindInvalidInput, "unknown embedder provider: "+cfg.Provider, nil)
	}
}
