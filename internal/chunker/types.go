// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package chunker splits normalized document text into bounded, ordered
// units ready for embedding, behind a name-keyed strategy table (sentence,
// token, semantic) in place of the teacher's single fixed-window splitter.
package chunker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Strategy names a chunking policy.
type Strategy string

const (
	StrategySentence Strategy = "sentence"
	StrategyToken    Strategy = "token"
	StrategySemantic Strategy = "semantic"
)

// Request describes one chunking operation.
type Request struct {
	Content      string
	Strategy     Strategy
	MaxChunkSize int
	Overlap      int
	SourceURL    string
	Namespace    string
}

// Chunk is one emitted, ordered unit of text.
type Chunk struct {
	ChunkID         string    `json:"chunk_id"`
	Text            string    `json:"text"`
	TokenCount      int       `json:"token_count"`
	EmbeddingStored bool      `json:"embedding_stored"`
	SourceURL       string    `json:"source_url"`
	Namespace       string    `json:"namespace"`
	CreatedAt       time.Time `json:"created_at"`
}

func newChunk(text, sourceURL, namespace string) Chunk {
	return Chunk{
		ChunkID:    uuid.NewString(),
		Text:       text,
		TokenCount: whitespaceTokenCount(text),
		SourceURL:  sourceURL,
		Namespace:  namespace,
		CreatedAt:  time.Now(),
	}
}

func whitespaceTokenCount(text string) int {
	return len(strings.Fields(text))
}
