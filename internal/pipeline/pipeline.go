// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/chunker"
	"github.com/northbound/websearch/internal/embed"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/logger"
	"github.com/northbound/websearch/internal/sitemap"
	"github.com/northbound/websearch/internal/urlnorm"
	"github.com/northbound/websearch/internal/vectorstore"
)

// Pipeline wires a Fetcher, the Chunker, an Embedder, and a VectorDB into
// the Batch Pipeline orchestration: URL materialization, a bounded worker
// pool, per-host rate limiting, and cooperative cancellation.
type Pipeline struct {
	fetcher  *fetcher.Fetcher
	sitemap  *sitemap.Resolver
	embedder embed.Embedder
	store    vectorstore.VectorDB
}

// New builds a Pipeline from its collaborators.
func New(f *fetcher.Fetcher, sm *sitemap.Resolver, e embed.Embedder, store vectorstore.VectorDB) *Pipeline {
	return &Pipeline{fetcher: f, sitemap: sm, embedder: e, store: store}
}

// Run materializes req's effective URL set, then drains it through a
// bounded worker pool with per-host rate limiting, returning partial
// results even if ctx is cancelled mid-run or individual URLs fail.
func (p *Pipeline) Run(ctx context.Context, req Request, progress Progress) (*Result, error) {
	if progress == nil {
		progress = noopProgress{}
	}

	urls, err := p.materializeURLs(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return &Result{}, nil
	}
	progress.OnTotal(len(urls))

	concurrency := req.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	limiter := newHostLimiter(req.RateLimitMs)
	urlCh := make(chan string)

	var mu sync.Mutex
	result := &Result{}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for url := range urlCh {
				p.processOne(ctx, req, url, limiter, progress, &mu, result)
			}
		}()
	}

	for _, u := range urls {
		select {
		case <-ctx.Done():
			goto drained
		case urlCh <- u:
		}
	}
drained:
	close(urlCh)
	wg.Wait()

	return result, nil
}

// materializeURLs unions req.URLs with sitemap-discovered URLs for
// req.Domain (if set), deduplicates by normalized URL, and truncates to
// req.MaxUrls.
func (p *Pipeline) materializeURLs(ctx context.Context, req Request) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(raw string) {
		norm, err := urlnorm.Normalize(raw)
		if err != nil || seen[norm] {
			return
		}
		seen[norm] = true
		out = append(out, norm)
	}

	for _, u := range req.URLs {
		add(u)
	}

	if req.Domain != "" {
		discovered, err := p.sitemap.Discover(ctx, req.Domain, 0, req.PathFilter)
		if err != nil {
			logger.Warnf("pipeline: sitemap discovery for %s failed, continuing with explicit urls only: %v", req.Domain, err)
		} else {
			for _, u := range discovered.DiscoveredURLs {
				add(u)
			}
		}
	}

	if req.MaxUrls > 0 && len(out) > req.MaxUrls {
		out = out[:req.MaxUrls]
	}
	return out, nil
}

// processOne runs the fetch -> chunk -> embed -> store flow for a single
// URL, recording a FailedURL on any stage's error rather than aborting the
// batch.
func (p *Pipeline) processOne(ctx context.Context, req Request, rawURL string, limiter *hostLimiter, progress Progress, mu *sync.Mutex, result *Result) {
	progress.OnURLStart()

	host, err := urlnorm.Host(rawURL)
	if err == nil {
		if waitErr := limiter.Wait(ctx, host); waitErr != nil {
			p.recordFailure(mu, result, progress, rawURL, apperr.KindCancelled, "cancelled waiting for rate limit token", true)
			return
		}
	}

	select {
	case <-ctx.Done():
		p.recordFailure(mu, result, progress, rawURL, apperr.KindCancelled, "cancelled before fetch", true)
		return
	default:
	}

	fetchResult, err := p.fetcher.Fetch(ctx, fetcher.Request{URL: rawURL, Mode: req.FetchMode})
	if err != nil {
		p.recordFailureFromError(mu, result, progress, rawURL, err)
		return
	}
	if fetchResult.Content == "" {
		p.recordFailure(mu, result, progress, rawURL, apperr.KindParse, "empty content after fetch", false)
		return
	}

	select {
	case <-ctx.Done():
		p.recordFailure(mu, result, progress, rawURL, apperr.KindCancelled, "cancelled after fetch", true)
		return
	default:
	}

	chunks, err := chunker.Chunk(chunker.Request{
		Content:      fetchResult.Content,
		Strategy:     req.ChunkStrategy,
		MaxChunkSize: req.MaxChunkSize,
		Overlap:      req.ChunkOverlap,
		SourceURL:    rawURL,
		Namespace:    req.Namespace,
	})
	if err != nil {
		p.recordFailureFromError(mu, result, progress, rawURL, err)
		return
	}

	var chunkIDs []string
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			p.recordFailure(mu, result, progress, rawURL, apperr.KindCancelled, "cancelled mid-embed", true)
			return
		default:
		}

		vec, err := p.embedder.EmbedText(ctx, c.Text)
		if err != nil {
			p.recordFailureFromError(mu, result, progress, rawURL, err)
			return
		}

		chunkID := uuid.NewString()
		metadata := map[string]string{"source_url": rawURL}
		if err := p.store.Put(req.Namespace, chunkID, vec, c.Text, metadata); err != nil {
			p.recordFailureFromError(mu, result, progress, rawURL, err)
			return
		}
		chunkIDs = append(chunkIDs, chunkID)
	}

	mu.Lock()
	result.Processed = append(result.Processed, rawURL)
	result.ChunkIDs = append(result.ChunkIDs, chunkIDs...)
	mu.Unlock()
	progress.OnURLDone(false, false)
}

func (p *Pipeline) recordFailureFromError(mu *sync.Mutex, result *Result, progress Progress, url string, err error) {
	kind, _ := apperr.KindOf(err)
	p.recordFailure(mu, result, progress, url, kind, err.Error(), kind == apperr.KindCancelled)
}

func (p *Pipeline) recordFailure(mu *sync.Mutex, result *Result, progress Progress, url string, kind apperr.Kind, message string, cancelled bool) {
	mu.Lock()
	result.Failed = append(result.Failed, FailedURL{URL: url, Kind: kind, Message: message})
	mu.Unlock()
	progress.OnURLDone(true, cancelled)
}
