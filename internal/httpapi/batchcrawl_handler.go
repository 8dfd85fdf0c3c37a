// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/chunker"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/pipeline"
)

type batchCrawlRequest struct {
	URLs           []string         `json:"urls"`
	Domain         string           `json:"domain"`
	FetchMode      fetcher.Mode     `json:"fetchMode"`
	ChunkStrategy  chunker.Strategy `json:"chunkStrategy"`
	MaxChunkSize   int              `json:"maxChunkSize"`
	ChunkOverlap   int              `json:"overlap"`
	MaxConcurrency int              `json:"maxConcurrency"`
	RateLimitMs    int              `json:"rateLimitMs"`
	PathFilter     string           `json:"pathFilter"`
	MaxUrls        int              `json:"maxUrls"`
	Namespace      string           `json:"namespace"`
}

func (req batchCrawlRequest) toPipelineRequest(ns string) pipeline.Request {
	strategy := req.ChunkStrategy
	if strategy == "" {
		strategy = chunker.StrategySentence
	}
	maxChunkSize := req.MaxChunkSize
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	mode := req.FetchMode
	if mode == "" {
		mode = fetcher.ModeAuto
	}
	concurrency := req.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return pipeline.Request{
		URLs:           req.URLs,
		Domain:         req.Domain,
		FetchMode:      mode,
		ChunkStrategy:  strategy,
		MaxChunkSize:   maxChunkSize,
		ChunkOverlap:   req.ChunkOverlap,
		MaxConcurrency: concurrency,
		RateLimitMs:    req.RateLimitMs,
		PathFilter:     req.PathFilter,
		MaxUrls:        req.MaxUrls,
		Namespace:      ns,
	}
}

func (s *Server) handleBatchCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req batchCrawlRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.URLs) == 0 && req.Domain == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "urls or domain is required", nil))
		return
	}

	ns := s.resolveNamespace(r, req.Namespace)

	result, err := s.pipeline.Run(r.Context(), req.toPipelineRequest(ns), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
