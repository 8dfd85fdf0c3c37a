// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/northbound/websearch/internal/chunker"
	"github.com/northbound/websearch/internal/embed"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/sitemap"
	"github.com/northbound/websearch/internal/vectorstore"
)

func newTestPipeline(t *testing.T, store *vectorstore.Store) (*Pipeline, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/empty":
			w.Write([]byte(`<html><body></body></html>`))
		default:
			w.Write([]byte(`<html><body><p>` + strRepeat("Some real page content. ", 10) + `</p></body></html>`))
		}
	}))

	f := fetcher.New(5*time.Second, 0, 0)
	sm := sitemap.New(5 * time.Second)
	e := embed.NewMockEmbedder(16)
	p := New(f, sm, e, store)
	return p, srv
}

func strRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestPipeline_RunProcessesURLs(t *testing.T) {
	dir := t.TempDir()
	store, err := vectorstore.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	p, srv := newTestPipeline(t, store)
	defer srv.Close()

	result, err := p.Run(context.Background(), Request{
		URLs:           []string{srv.URL + "/a", srv.URL + "/b"},
		FetchMode:      fetcher.ModeStatic,
		ChunkStrategy:  chunker.StrategySentence,
		MaxChunkSize:   1000,
		MaxConcurrency: 2,
		Namespace:      "ns1",
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Processed) != 2 {
		t.Fatalf("expected 2 processed urls, got %+v", result)
	}
	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %+v", result.Failed)
	}
	if len(result.ChunkIDs) == 0 {
		t.Fatal("expected at least one chunk id")
	}

	count, err := store.Count("ns1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != len(result.ChunkIDs) {
		t.Fatalf("expected store count to equal emitted chunk ids, got %d vs %d", count, len(result.ChunkIDs))
	}
}

func TestPipeline_RecordsEmptyContentFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := vectorstore.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	p, srv := newTestPipeline(t, store)
	defer srv.Close()

	result, err := p.Run(context.Background(), Request{
		URLs:           []string{srv.URL + "/empty"},
		FetchMode:      fetcher.ModeStatic,
		ChunkStrategy:  chunker.StrategySentence,
		MaxChunkSize:   1000,
		MaxConcurrency: 1,
		Namespace:      "ns1",
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure for empty content, got %+v", result)
	}
}

func TestPipeline_DedupesExplicitURLs(t *testing.T) {
	dir := t.TempDir()
	store, err := vectorstore.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	p, srv := newTestPipeline(t, store)
	defer srv.Close()

	result, err := p.Run(context.Background(), Request{
		URLs:           []string{srv.URL + "/a", srv.URL + "/a"},
		FetchMode:      fetcher.ModeStatic,
		ChunkStrategy:  chunker.StrategySentence,
		MaxChunkSize:   1000,
		MaxConcurrency: 2,
		Namespace:      "ns1",
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Processed) != 1 {
		t.Fatalf("expected duplicate urls to collapse to 1, got %+v", result.Processed)
	}
}

func TestPipeline_CancellationStopsEarly(t *testing.T) {
	dir := t.TempDir()
	store, err := vectorstore.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	p, srv := newTestPipeline(t, store)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx, Request{
		URLs:           []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"},
		FetchMode:      fetcher.ModeStatic,
		ChunkStrategy:  chunker.StrategySentence,
		MaxChunkSize:   1000,
		MaxConcurrency: 1,
		Namespace:      "ns1",
	}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Processed) == 3 {
		t.Fatal("expected cancellation before start to short-circuit most urls")
	}
}
