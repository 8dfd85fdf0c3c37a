// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package search

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long a cached response stays fresh absent explicit
// configuration.
const DefaultTTL = 10 * time.Minute

// DefaultCacheSize bounds the number of distinct parameter tuples cached.
const DefaultCacheSize = 500

// Facade consults an in-memory TTL cache keyed on the full parameter
// tuple before delegating to an external search provider.
type Facade struct {
	provider Provider
	cache    *expirable.LRU[string, cachedResult]
}

type cachedResult struct {
	provider string
	results  []Result
}

// New builds a Facade in front of provider. ttl <= 0 uses DefaultTTL;
// size <= 0 uses DefaultCacheSize.
func New(provider Provider, ttl time.Duration, size int) *Facade {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Facade{
		provider: provider,
		cache:    expirable.NewLRU[string, cachedResult](size, nil, ttl),
	}
}

// Search serves query+opts from cache when present; otherwise delegates to
// the configured provider and caches its (non-error) response. Rate
// limiting, if any, is the provider's responsibility.
func (f *Facade) Search(ctx context.Context, query string, opts Options) (Response, error) {
	start := time.Now()
	key := cacheKey(query, opts)

	if cached, ok := f.cache.Get(key); ok {
		return Response{
			Provider:       cached.provider,
			Results:        cached.results,
			ResponseTimeMs: time.Since(start).Milliseconds(),
			FromCache:      true,
		}, nil
	}

	providerName, results, err := f.provider.Search(ctx, query, opts)
	if err != nil {
		return Response{}, err
	}

	f.cache.Add(key, cachedResult{provider: providerName, results: results})
	return Response{
		Provider:       providerName,
		Results:        results,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		FromCache:      false,
	}, nil
}

// cacheKey builds a deterministic string from every parameter the result
// depends on, so two requests differing in any field never collide.
func cacheKey(query string, opts Options) string {
	domains := append([]string(nil), opts.IncludeDomains...)
	sort.Strings(domains)

	var b strings.Builder
	b.WriteString(query)
	b.WriteByte('\x00')
	b.WriteString(strconv.Itoa(opts.MaxResults))
	b.WriteByte('\x00')
	b.WriteString(opts.Freshness)
	b.WriteByte('\x00')
	b.WriteString(opts.Language)
	b.WriteByte('\x00')
	b.WriteString(strings.Join(domains, ","))
	return b.String()
}
