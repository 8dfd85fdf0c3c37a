// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/chunker"
)

type chunkRequest struct {
	Content      string           `json:"content"`
	Strategy     chunker.Strategy `json:"strategy"`
	MaxChunkSize int              `json:"maxChunkSize"`
	Overlap      int              `json:"overlap"`
	SourceURL    string           `json:"sourceUrl"`
	Namespace    string           `json:"namespace"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req chunkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Content == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "content is required", nil))
		return
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = chunker.StrategySentence
	}
	maxChunkSize := req.MaxChunkSize
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}

	chunks, err := chunker.Chunk(chunker.Request{
		Content:      req.Content,
		Strategy:     strategy,
		MaxChunkSize: maxChunkSize,
		Overlap:      req.Overlap,
		SourceURL:    req.SourceURL,
		Namespace:    s.resolveNamespace(r, req.Namespace),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chunks)
}
