// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import "github.com/northbound/websearch/internal/apperr"

type strategyFunc func(Request) ([]Chunk, error)

var registry = map[Strategy]strategyFunc{
	StrategySentence: chunkSentence,
	StrategyToken:    chunkToken,
	StrategySemantic: chunkSemantic,
}

// Chunk splits req.Content into an ordered sequence of Chunks per
// req.Strategy. It preserves document order and never loses non-whitespace
// text except where a strategy explicitly discards boilerplate.
func Chunk(req Request) ([]Chunk, error) {
	if req.Content == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "empty_content", nil)
	}
	if req.Strategy == "" {
		req.Strategy = StrategySentence
	}
	if req.MaxChunkSize < 1 {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid_bounds: maxChunkSize must be >= 1", nil)
	}
	if req.Overlap < 0 || req.Overlap >= req.MaxChunkSize {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid_bounds: overlap must be >= 0 and < maxChunkSize", nil)
	}

	fn, ok := registry[req.Strategy]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid_strategy: "+string(req.Strategy), nil)
	}

	return fn(req)
}
