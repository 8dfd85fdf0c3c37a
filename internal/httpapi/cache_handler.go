// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"context"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
)

type cacheRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"topK"`
	Threshold float32 `json:"threshold"`
	Namespace string  `json:"namespace"`
}

// scoredChunk is the cache endpoint's per-hit shape: a vectorstore.Match
// rendered for the API boundary.
type scoredChunk struct {
	ChunkID  string            `json:"chunkId"`
	Score    float32           `json:"score"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// handleCache serves POST /cache: embed the query text and return the
// nearest stored chunks from the namespace's Vector Store index.
func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req cacheRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Query == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "query is required", nil))
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	vec, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	matches, err := s.store.Query(s.resolveNamespace(r, req.Namespace), vec, topK, req.Threshold)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]scoredChunk, len(matches))
	for i, m := range matches {
		out[i] = scoredChunk{ChunkID: m.ChunkID, Score: m.Score, Text: m.Text, Metadata: m.Metadata}
	}
	writeJSON(w, http.StatusOK, out)
}
