// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package search implements the Search Facade: a TTL cache in front of a
// pluggable external search provider, keyed on the full parameter tuple.
package search

import "context"

// Result is one hit returned by a search provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Options narrows a search query; zero values mean "unset."
type Options struct {
	MaxResults     int
	Freshness      string
	Language       string
	IncludeDomains []string
}

// Provider is the external, pluggable collaborator the facade delegates to
// on a cache miss. Errors are surfaced to the caller verbatim.
type Provider interface {
	Search(ctx context.Context, query string, opts Options) (providerName string, results []Result, err error)
}

// Response is what the facade returns: a provider-tagged result set plus
// whether it was served from cache.
type Response struct {
	Provider       string   `json:"provider"`
	Results        []Result `json:"results"`
	ResponseTimeMs int64    `json:"response_time_ms"`
	FromCache      bool     `json:"from_cache"`
}
