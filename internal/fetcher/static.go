// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/northbound/websearch/internal/apperr"
)

const maxRedirects = 10

// fetchStatic performs a single-shot HTTP GET, following redirects up to
// maxRedirects, and returns the raw body plus the response actually used
// for content-type sniffing.
func fetchStatic(ctx context.Context, client *http.Client, rawURL string) (body []byte, finalURL string, contentType string, status int, retryAfter time.Duration, err error) {
	u, parseErr := url.Parse(rawURL)
	if parseErr != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", "", 0, 0, apperr.New(apperr.KindInvalidInput, "invalid url: "+rawURL, parseErr)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", "", 0, 0, apperr.New(apperr.KindUnsupportedScheme, "scheme not supported: "+u.Scheme, nil)
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if reqErr != nil {
		return nil, "", "", 0, 0, apperr.New(apperr.KindInvalidInput, "build request", reqErr)
	}
	req.Header.Set("User-Agent", "websearch-fetcher/1.0 (+local research appliance)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")

	resp, doErr := client.Do(req)
	if doErr != nil {
		if ctx.Err() != nil {
			return nil, "", "", 0, 0, apperr.New(apperr.KindTimeout, "request timed out", doErr)
		}
		return nil, "", "", 0, 0, apperr.New(apperr.KindNetwork, "request failed", doErr)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, 50*1024*1024))
	if readErr != nil {
		return nil, "", "", resp.StatusCode, 0, apperr.New(apperr.KindNetwork, "read response body", readErr)
	}

	finalURL = resp.Request.URL.String()
	contentType = resp.Header.Get("Content-Type")

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode >= 400 {
		return data, finalURL, contentType, resp.StatusCode, retryAfter,
			apperr.Newf(apperr.KindHTTPStatus, nil, "http status %d", resp.StatusCode).WithDetail("status_code", strconv.Itoa(resp.StatusCode))
	}

	return data, finalURL, contentType, resp.StatusCode, 0, nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
