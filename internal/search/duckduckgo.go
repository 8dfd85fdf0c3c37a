// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/northbound/websearch/internal/apperr"
)

const duckduckgoHTMLEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGoProvider queries DuckDuckGo's HTML-only results page (no API
// key required) and scrapes result title/url/snippet with goquery, the
// same selection idiom the fetcher uses to parse fetched pages.
type DuckDuckGoProvider struct {
	client *http.Client
}

// NewDuckDuckGoProvider builds a provider with the given request timeout.
func NewDuckDuckGoProvider(timeout time.Duration) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{client: &http.Client{Timeout: timeout}}
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, opts Options) (string, []Result, error) {
	return p.searchURL(ctx, duckduckgoHTMLEndpoint, query, opts)
}

// searchURL is Search parameterized on the endpoint, so tests can point it
// at an httptest server instead of the real DuckDuckGo host.
func (p *DuckDuckGoProvider) searchURL(ctx context.Context, endpoint, query string, opts Options) (string, []Result, error) {
	form := url.Values{"q": {query}}
	if opts.Language != "" {
		form.Set("kl", opts.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, apperr.New(apperr.KindInternal, "build duckduckgo request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "websearch/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, apperr.New(apperr.KindNetwork, "duckduckgo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, apperr.New(apperr.KindHTTPStatus, fmt.Sprintf("duckduckgo returned status %d", resp.StatusCode), nil).
			WithDetail("status_code", fmt.Sprintf("%d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", nil, apperr.New(apperr.KindParse, "parse duckduckgo results", err)
	}

	var results []Result
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			return
		}
		link := s.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		if title == "" || href == "" {
			return
		}
		if !domainAllowed(href, opts.IncludeDomains) {
			return
		}
		results = append(results, Result{Title: title, URL: href, Snippet: snippet})
	})

	return "duckduckgo", results, nil
}

func domainAllowed(rawURL string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, d := range allowed {
		if u.Hostname() == d || strings.HasSuffix(u.Hostname(), "."+d) {
			return true
		}
	}
	return false
}
