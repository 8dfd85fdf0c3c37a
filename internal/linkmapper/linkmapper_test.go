// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package linkmapper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/northbound/websearch/internal/fetcher"
)

func TestMap_BFSStaysOnSite(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<html><body>` +
				`<a href="/a">A</a> <a href="/b">B</a> <a href="https://external.example/x">Ext</a>` +
				`</body></html>`))
		case "/a":
			w.Write([]byte(`<html><body><a href="/c">C</a></body></html>`))
		default:
			w.Write([]byte(`<html><body>leaf</body></html>`))
		}
	}))
	defer srv.Close()

	f := fetcher.New(5*time.Second, 0, 0)
	m := New(f)
	urls, err := m.Map(context.Background(), srv.URL+"/", 2, 10, "")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	found := map[string]bool{}
	for _, u := range urls {
		found[u] = true
	}
	if !found[srv.URL+"/"] || !found[srv.URL+"/a"] || !found[srv.URL+"/b"] {
		t.Fatalf("expected seed + depth-1 pages to be visited, got %v", urls)
	}
	if !found[srv.URL+"/c"] {
		t.Fatalf("expected depth-2 page /c reachable within maxDepth, got %v", urls)
	}
	for u := range found {
		if u == "https://external.example/x" {
			t.Fatal("external-domain link must not be followed")
		}
	}
}

func TestMap_RespectsMaxUrls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><a href="/x">X</a><a href="/y">Y</a><a href="/z">Z</a></body></html>`))
	}))
	defer srv.Close()

	f := fetcher.New(5*time.Second, 0, 0)
	m := New(f)
	urls, err := m.Map(context.Background(), srv.URL+"/", 3, 2, "")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(urls) > 2 {
		t.Fatalf("expected at most 2 urls, got %d: %v", len(urls), urls)
	}
}

func TestMap_RespectsMaxDepth(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<html><body><a href="/a">A</a></body></html>`))
		case "/a":
			w.Write([]byte(`<html><body><a href="/b">B</a></body></html>`))
		default:
			w.Write([]byte(`<html><body>leaf</body></html>`))
		}
	}))
	defer srv.Close()

	f := fetcher.New(5*time.Second, 0, 0)
	m := New(f)
	urls, err := m.Map(context.Background(), srv.URL+"/", 0, 10, "")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected depth 0 to only visit the seed, got %v", urls)
	}
}
