// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	calls int
}

func (c *countingProvider) Search(ctx context.Context, query string, opts Options) (string, []Result, error) {
	c.calls++
	return "counting", []Result{{Title: "hit", URL: "https://example.com"}}, nil
}

type erroringProvider struct{}

func (erroringProvider) Search(ctx context.Context, query string, opts Options) (string, []Result, error) {
	return "", nil, errors.New("provider unavailable")
}

func TestFacade_CachesByFullParameterTuple(t *testing.T) {
	p := &countingProvider{}
	f := New(p, time.Minute, 10)

	if _, err := f.Search(context.Background(), "go", Options{MaxResults: 5}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	resp, err := f.Search(context.Background(), "go", Options{MaxResults: 5})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !resp.FromCache {
		t.Fatal("expected second identical search to be served from cache")
	}
	if p.calls != 1 {
		t.Fatalf("expected provider to be called once, got %d", p.calls)
	}
}

func TestFacade_DifferentParamsMiss(t *testing.T) {
	p := &countingProvider{}
	f := New(p, time.Minute, 10)

	if _, err := f.Search(context.Background(), "go", Options{MaxResults: 5}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	resp, err := f.Search(context.Background(), "go", Options{MaxResults: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.FromCache {
		t.Fatal("expected a differing maxResults to miss the cache")
	}
	if p.calls != 2 {
		t.Fatalf("expected provider to be called twice, got %d", p.calls)
	}
}

func TestFacade_ProviderErrorSurfacedVerbatim(t *testing.T) {
	f := New(erroringProvider{}, time.Minute, 10)
	_, err := f.Search(context.Background(), "go", Options{})
	if err == nil {
		t.Fatal("expected provider error to surface")
	}
}

func TestFacade_TTLExpiry(t *testing.T) {
	p := &countingProvider{}
	f := New(p, 20*time.Millisecond, 10)

	if _, err := f.Search(context.Background(), "go", Options{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	resp, err := f.Search(context.Background(), "go", Options{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.FromCache {
		t.Fatal("expected cache entry to have expired")
	}
	if p.calls != 2 {
		t.Fatalf("expected provider to be called again after TTL expiry, got %d", p.calls)
	}
}

func TestMockProvider_DefaultsToThreeResults(t *testing.T) {
	_, results, err := MockProvider{}.Search(context.Background(), "go", Options{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 default results, got %d", len(results))
	}
}
