// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package pipeline orchestrates the Batch Pipeline: URL materialization
// from an explicit list and/or sitemap discovery, a bounded worker pool
// with per-host rate limiting, and the per-URL fetch -> chunk -> embed ->
// store flow.
package pipeline

import (
	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/chunker"
	"github.com/northbound/websearch/internal/fetcher"
)

// Request describes one batch crawl invocation.
type Request struct {
	URLs           []string
	Domain         string // if set, sitemap-discovered URLs are unioned with URLs
	FetchMode      fetcher.Mode
	ChunkStrategy  chunker.Strategy
	MaxChunkSize   int
	ChunkOverlap   int
	MaxConcurrency int
	RateLimitMs    int
	PathFilter     string
	MaxUrls        int
	Namespace      string
}

// FailedURL records a per-URL failure without aborting the batch.
type FailedURL struct {
	URL     string
	Kind    apperr.Kind
	Message string
}

// Result is the partial/complete outcome of a batch crawl; results are
// always returned even when some URLs failed.
type Result struct {
	Processed []string
	Failed    []FailedURL
	ChunkIDs  []string
}

// Progress receives counter updates as the batch executes, letting the job
// manager maintain a read-consistent snapshot without polling pipeline
// internals.
type Progress interface {
	OnTotal(total int)
	OnURLStart()
	OnURLDone(failed, cancelled bool)
}

// noopProgress satisfies Progress when the caller doesn't need updates.
type noopProgress struct{}

func (noopProgress) OnTotal(total int)                {}
func (noopProgress) OnURLStart()                      {}
func (noopProgress) OnURLDone(failed, cancelled bool) {}
