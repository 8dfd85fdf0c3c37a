// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder generates deterministic embeddings from a text hash, with no
// network dependency. Used for tests and offline operation.
type MockEmbedder struct {
	dim int
}

// NewMockEmbedder builds a MockEmbedder producing dim-dimensional vectors.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{dim: dim}
}

func (e *MockEmbedder) Dimension() int { return e.dim }
func (e *MockEmbedder) Model() string  { return "mock" }

// EmbedText derives a deterministic, L2-normalized vector from text's FNV
// hash so identical input always embeds to the identical vector (the
// self-similarity property required by spec §8 holds trivially).
func (e *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, e.dim)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(seed*uint32(i+1)) * 0.1))
	}

	var sumSq float32
	for _, v := range vec {
		sumSq += v * v
	}
	norm := float32(math.Sqrt(float64(sumSq)))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
