// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_StaticHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Hi</title></head><body><h1>Hello</h1><p>World content here, long enough to pass the SPA threshold check easily with plenty of words padding it out nicely.</p><a href="/next">Next</a></body></html>`))
	}))
	defer srv.Close()

	f := New(5*time.Second, 0, 10)
	result, err := f.Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeStatic, IncludeLinks: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Title != "Hi" {
		t.Errorf("expected title Hi, got %q", result.Title)
	}
	if !strings.Contains(result.Content, "# Hello") {
		t.Errorf("expected heading in markdown output, got %q", result.Content)
	}
	if len(result.Links) != 1 || !strings.HasSuffix(result.Links[0], "/next") {
		t.Errorf("expected resolved link to /next, got %+v", result.Links)
	}
}

func TestFetch_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5*time.Second, 0, 10)
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeStatic})
	if err == nil {
		t.Fatal("expected http_status error for 404")
	}
}

func TestFetch_RetriesOn500ThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>` + strings.Repeat("content ", 30) + `</body></html>`))
	}))
	defer srv.Close()

	f := New(5*time.Second, 2, 10)
	result, err := f.Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeStatic})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", attempts)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestFetch_DoesNotRetry404(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5*time.Second, 3, 10)
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeStatic})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected no retries on 404, got %d attempts", attempts)
	}
}

func TestFetch_AutoFallsBackWhenBelowThreshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer srv.Close()

	f := New(5*time.Second, 0, 200)
	result, err := f.Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeAuto})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	// No dynamic driver configured, so it must degrade back to the static result.
	if result.FetcherUsed != ModeStatic {
		t.Errorf("expected static fallback when no dynamic driver configured, got %s", result.FetcherUsed)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	f := New(5*time.Second, 0, 10)
	_, err := f.Fetch(context.Background(), Request{URL: "ftp://example.com/file", Mode: ModeStatic})
	if err == nil {
		t.Fatal("expected unsupported_scheme error")
	}
}

func TestFetch_DynamicWithoutDriverFails(t *testing.T) {
	f := New(5*time.Second, 0, 10)
	_, err := f.Fetch(context.Background(), Request{URL: "https://example.com", Mode: ModeDynamic})
	if err == nil {
		t.Fatal("expected error when dynamic mode requested with no driver configured")
	}
}

type stubDriver struct {
	html     string
	finalURL string
}

func (d stubDriver) Render(ctx context.Context, url, waitForSelector, captchaToken string) (string, string, error) {
	return d.html, d.finalURL, nil
}

func TestFetch_DynamicCaptchaBlockedWithoutSolver(t *testing.T) {
	f := New(5*time.Second, 0, 10, WithDynamicDriver(stubDriver{
		html:     `<html><body><div class="g-recaptcha"></div></body></html>`,
		finalURL: "https://example.com",
	}))
	_, err := f.Fetch(context.Background(), Request{URL: "https://example.com", Mode: ModeDynamic})
	if err == nil {
		t.Fatal("expected captcha_blocked error")
	}
}
