// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package embed

import (
	"context"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	a, err := e.EmbedText(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	b, err := e.EmbedText(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic output, got %v vs %v", a, b)
		}
	}
}

func TestMockEmbedder_DimensionMatches(t *testing.T) {
	e := NewMockEmbedder(32)
	v, err := e.EmbedText(context.Background(), "x")
	if err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	if len(v) != 32 {
		t.Fatalf("expected 32 dims, got %d", len(v))
	}
}

func TestBuild_UnknownProvider(t *testing.T) {
	_, err := Build(Config{Provider: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestBuild_OpenAIRequiresKey(t *testing.T) {
	_, err := Build(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error when openai key is missing")
	}
}

type countingEmbedder struct {
	calls int
	dim   int
}

func (c *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return []float32{1, 0}, nil
}
func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, _ := c.EmbedText(ctx, texts[i])
		out[i] = v
	}
	return out, nil
}
func (c *countingEmbedder) Dimension() int { return c.dim }
func (c *countingEmbedder) Model() string  { return "counting" }

func TestCachedEmbedder_HitsAvoidInnerCall(t *testing.T) {
	inner := &countingEmbedder{dim: 2}
	cached := NewCachedEmbedder(inner, 10)

	if _, err := cached.EmbedText(context.Background(), "a"); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	if _, err := cached.EmbedText(context.Background(), "a"); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit to avoid second inner call, got %d calls", inner.calls)
	}
}

func TestCachedEmbedder_BatchPartialHit(t *testing.T) {
	inner := &countingEmbedder{dim: 2}
	cached := NewCachedEmbedder(inner, 10)

	if _, err := cached.EmbedText(context.Background(), "a"); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	inner.calls = 0

	results, err := cached.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if inner.calls != 1 {
		t.Fatalf("expected only the uncached text to hit inner, got %d calls", inner.calls)
	}
}
