// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package linkmapper performs a breadth-first crawl of a site's link graph,
// starting from a seed URL and staying on the seed's registered domain.
package linkmapper

import (
	"context"
	"net/url"
	"regexp"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/urlnorm"
)

// Mapper discovers a site's reachable URL set via BFS, fetching each page
// statically (dynamic rendering is too expensive to justify for mapping).
type Mapper struct {
	fetcher *fetcher.Fetcher
}

// New builds a Mapper that fetches pages through f.
func New(f *fetcher.Fetcher) *Mapper {
	return &Mapper{fetcher: f}
}

type queueItem struct {
	url   string
	depth int
}

// Map performs the BFS traversal described in the Link Mapper contract:
// visited set, depth-tagged queue, same-registered-domain filter, optional
// path regex, stopping at maxDepth or maxUrls. Fetch failures are silently
// excluded from the result (the spec calls for "visited set minus
// failures"), not surfaced as a mapper-level error.
func (m *Mapper) Map(ctx context.Context, startURL string, maxDepth, maxUrls int, pathFilterRegex string) ([]string, error) {
	start, err := urlnorm.Normalize(startURL)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid start url", err)
	}
	startHost, err := urlnorm.Host(start)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid start url host", err)
	}

	var filter *regexp.Regexp
	if pathFilterRegex != "" {
		filter, err = regexp.Compile(pathFilterRegex)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidInput, "invalid pathFilterRegex", err)
		}
	}

	visited := map[string]bool{start: true}
	var ordered []string
	queue := []queueItem{{url: start, depth: 0}}

	for len(queue) > 0 {
		if maxUrls > 0 && len(ordered) >= maxUrls {
			break
		}
		select {
		case <-ctx.Done():
			return ordered, apperr.New(apperr.KindCancelled, "link mapping cancelled", ctx.Err())
		default:
		}

		item := queue[0]
		queue = queue[1:]

		result, err := m.fetcher.Fetch(ctx, fetcher.Request{URL: item.url, Mode: fetcher.ModeStatic, IncludeLinks: true})
		if err != nil {
			continue
		}
		ordered = append(ordered, item.url)

		if item.depth >= maxDepth {
			continue
		}
		for _, link := range result.Links {
			norm, err := urlnorm.Normalize(link)
			if err != nil || visited[norm] {
				continue
			}
			host, err := urlnorm.Host(norm)
			if err != nil || !urlnorm.SameSite(host, startHost) {
				continue
			}
			if filter != nil {
				u, err := url.Parse(norm)
				if err != nil || !filter.MatchString(u.Path) {
					continue
				}
			}
			visited[norm] = true
			queue = append(queue, queueItem{url: norm, depth: item.depth + 1})
		}
	}

	return ordered, nil
}
