// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package sitemap

import (
	"bufio"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/logger"
	"github.com/northbound/websearch/internal/urlnorm"
)

const maxIndexDepth = 2

var commonPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Resolver discovers a domain's URL set.
type Resolver struct {
	client *http.Client
}

// New builds a Resolver with the given HTTP timeout.
func New(timeout time.Duration) *Resolver {
	return &Resolver{client: &http.Client{Timeout: timeout}}
}

// Discover implements the procedure in the Sitemap Resolver contract:
// robots.txt Sitemap: directives first, common paths as fallback, recursive
// sitemap-index expansion bounded to depth 2, then filter/dedup/truncate.
func (r *Resolver) Discover(ctx context.Context, domain string, maxUrls int, pathFilterRegex string) (*Result, error) {
	origin, err := normalizeOrigin(domain)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid domain: "+domain, err)
	}

	var filter *regexp.Regexp
	if pathFilterRegex != "" {
		filter, err = regexp.Compile(pathFilterRegex)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidInput, "invalid pathFilterRegex", err)
		}
	}

	sitemapURLs, source := r.fromRobots(ctx, origin)
	if len(sitemapURLs) == 0 {
		sitemapURLs, source = r.fromCommonPaths(ctx, origin)
	}
	if len(sitemapURLs) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "no_sitemap: no robots.txt directive or common sitemap path found", nil)
	}

	seen := make(map[string]bool)
	var discovered []string
	for _, sm := range sitemapURLs {
		locs, err := r.expand(ctx, sm, 0)
		if err != nil {
			logger.Warnf("sitemap: failed to expand %s: %v", sm, err)
			continue
		}
		for _, loc := range locs {
			norm, err := urlnorm.Normalize(loc)
			if err != nil || seen[norm] {
				continue
			}
			if filter != nil {
				u, err := url.Parse(norm)
				if err != nil || !filter.MatchString(u.Path) {
					continue
				}
			}
			seen[norm] = true
			discovered = append(discovered, norm)
			if maxUrls > 0 && len(discovered) >= maxUrls {
				return &Result{DiscoveredURLs: discovered, Source: source}, nil
			}
		}
	}

	if len(discovered) == 0 {
		return nil, apperr.New(apperr.KindParse, "sitemaps found but contained no usable <loc> entries", nil)
	}

	return &Result{DiscoveredURLs: discovered, Source: source}, nil
}

func normalizeOrigin(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	u, err := url.Parse(domain)
	if err != nil || u.Host == "" {
		return "", apperr.New(apperr.KindInvalidInput, "cannot parse domain", err)
	}
	return u.Scheme + "://" + u.Host, nil
}

func (r *Resolver) fromRobots(ctx context.Context, origin string) ([]string, string) {
	body, err := r.get(ctx, origin+"/robots.txt")
	if err != nil {
		return nil, ""
	}
	var urls []string
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		loc := strings.TrimSpace(line[len("sitemap:"):])
		if loc != "" {
			urls = append(urls, loc)
		}
	}
	if len(urls) == 0 {
		return nil, ""
	}
	return urls, "robots"
}

func (r *Resolver) fromCommonPaths(ctx context.Context, origin string) ([]string, string) {
	for _, p := range commonPaths {
		candidate := origin + p
		if _, err := r.get(ctx, candidate); err == nil {
			return []string{candidate}, "common_path:" + p
		}
	}
	return nil, ""
}

// expand fetches sitemapURL and returns its <loc> entries, recursing into
// sitemap-index files up to maxIndexDepth.
func (r *Resolver) expand(ctx context.Context, sitemapURL string, depth int) ([]string, error) {
	body, err := r.get(ctx, sitemapURL)
	if err != nil {
		return nil, apperr.New(apperr.KindNetwork, "fetch sitemap "+sitemapURL, err)
	}

	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err == nil && len(idx.Sitemaps) > 0 {
		if depth >= maxIndexDepth {
			logger.Warnf("sitemap: index depth bound reached at %s, not descending further", sitemapURL)
			return nil, nil
		}
		var all []string
		for _, sm := range idx.Sitemaps {
			if sm.Loc == "" {
				continue
			}
			child, err := r.expand(ctx, sm.Loc, depth+1)
			if err != nil {
				logger.Warnf("sitemap: failed to expand child index %s: %v", sm.Loc, err)
				continue
			}
			all = append(all, child...)
		}
		return all, nil
	}

	var set urlset
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, apperr.New(apperr.KindParse, "parse sitemap xml "+sitemapURL, err)
	}
	var locs []string
	for _, u := range set.URLs {
		if u.Loc != "" {
			locs = append(locs, u.Loc)
		}
	}
	return locs, nil
}

func (r *Resolver) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Newf(apperr.KindHTTPStatus, nil, "status %d fetching %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 20*1024*1024))
}
