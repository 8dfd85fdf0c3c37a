// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"bytes"
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/logger"
)

// Fetcher retrieves and normalizes URLs. It is safe for concurrent use; the
// batch pipeline shares one Fetcher across its worker pool.
type Fetcher struct {
	client           *http.Client
	dynamicDriver    DynamicDriver
	solver           CaptchaSolver
	retries          int
	minStaticTextLen int
}

// Option configures a Fetcher at construction time.
type Option func(*Fetcher)

// WithDynamicDriver wires a real headless-browser driver in place of the
// no-op default.
func WithDynamicDriver(d DynamicDriver) Option {
	return func(f *Fetcher) { f.dynamicDriver = d }
}

// WithCaptchaSolver wires a solver so dynamic mode can clear a detected
// challenge instead of failing closed.
func WithCaptchaSolver(s CaptchaSolver) Option {
	return func(f *Fetcher) { f.solver = s }
}

// New builds a Fetcher. timeout bounds a single HTTP round trip; retries is
// the number of additional attempts after the first on transient failure;
// minStaticTextLen is the auto-mode threshold below which a static fetch is
// considered SPA-shaped and re-tried dynamically.
func New(timeout time.Duration, retries, minStaticTextLen int, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:           &http.Client{Timeout: timeout},
		dynamicDriver:    noopDynamicDriver{},
		retries:          retries,
		minStaticTextLen: minStaticTextLen,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves req.URL per req.Mode.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	if req.URL == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "url is required", nil)
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeAuto
	}

	switch mode {
	case ModeStatic:
		return f.fetchStaticWithRetry(ctx, req)
	case ModeDynamic:
		return f.fetchDynamic(ctx, req)
	case ModeAuto:
		result, err := f.fetchStaticWithRetry(ctx, req)
		if err != nil {
			return nil, err
		}
		if f.looksLikeSPA(result) {
			logger.Debugf("fetcher: auto mode falling back to dynamic for %s", req.URL)
			dynResult, dynErr := f.fetchDynamic(ctx, req)
			if dynErr == nil {
				return dynResult, nil
			}
			logger.Warnf("fetcher: dynamic fallback unavailable for %s: %v", req.URL, dynErr)
		}
		return result, nil
	default:
		return nil, apperr.New(apperr.KindInvalidInput, "unknown fetch mode: "+string(mode), nil)
	}
}

// looksLikeSPA applies the auto-mode heuristic to static results: it reports
// true when the trimmed normalized content is shorter than minStaticTextLen.
// SPA root-node markers are not consulted, and text extracted from a
// document (PDF, DOCX, spreadsheet, email) is held to the same length test.
func (f *Fetcher) looksLikeSPA(r *Result) bool {
	if r.FetcherUsed != ModeStatic {
		return false
	}
	return len(strings.TrimSpace(r.Content)) < f.minStaticTextLen
}

func (f *Fetcher) fetchStaticWithRetry(ctx context.Context, req Request) (*Result, error) {
	var lastErr error
	attempts := f.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := f.fetchStaticOnce(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		kind, _ := apperr.KindOf(err)
		if !isRetryable(kind, err) {
			return nil, err
		}
		if attempt == attempts-1 {
			break
		}

		wait := backoffWithJitter(attempt)
		if ae, ok := err.(*apperr.Error); ok {
			if d := retryAfterFromDetails(ae); d > 0 {
				wait = d
			}
		}
		logger.Debugf("fetcher: retrying %s after %v (attempt %d/%d)", req.URL, wait, attempt+1, attempts)
		select {
		case <-ctx.Done():
			return nil, apperr.New(apperr.KindCancelled, "fetch cancelled during retry backoff", ctx.Err())
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// isRetryable mirrors the spec's retry policy: network/timeout/5xx and 429
// are retried; other 4xx are not.
func isRetryable(kind apperr.Kind, err error) bool {
	switch kind {
	case apperr.KindNetwork, apperr.KindTimeout:
		return true
	case apperr.KindHTTPStatus:
		ae, ok := err.(*apperr.Error)
		if !ok {
			return false
		}
		code := ae.Details["status_code"]
		return code == "429" || strings.HasPrefix(code, "5")
	default:
		return false
	}
}

func retryAfterFromDetails(ae *apperr.Error) time.Duration {
	v, ok := ae.Details["retry_after_ms"]
	if !ok {
		return 0
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func backoffWithJitter(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 250 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

func (f *Fetcher) fetchStaticOnce(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	body, finalURL, contentType, status, retryAfter, err := fetchStatic(ctx, f.client, req.URL)
	if err != nil {
		if retryAfter > 0 {
			if ae, ok := err.(*apperr.Error); ok {
				ae.WithDetail("retry_after_ms", strconv.FormatInt(retryAfter.Milliseconds(), 10))
			}
		}
		return nil, err
	}

	return f.buildResult(req, body, finalURL, contentType, status, ModeStatic, start)
}

func (f *Fetcher) buildResult(req Request, body []byte, finalURL, contentType string, status int, usedMode Mode, start time.Time) (*Result, error) {
	if isPDF(contentType, body) {
		text, err := extractPDF(body)
		if err != nil {
			return nil, err
		}
		return &Result{
			URL: req.URL, FinalURL: finalURL, Content: text, RawBytes: body,
			WordCount: wordCount(text), StatusCode: status, FetcherUsed: usedMode,
			FetchTimeMs: elapsedMs(start),
		}, nil
	}

	if ext, ok := documentExtractorFor(contentType, finalURL); ok {
		text, err := ext(body)
		if err != nil {
			return nil, err
		}
		return &Result{
			URL: req.URL, FinalURL: finalURL, Content: text, RawBytes: body,
			WordCount: wordCount(text), StatusCode: status, FetcherUsed: usedMode,
			FetchTimeMs: elapsedMs(start),
		}, nil
	}

	base, _ := url.Parse(finalURL)
	doc, err := parseHTMLDoc(string(body), base)
	if err != nil {
		return nil, apperr.New(apperr.KindParse, "parse html", err)
	}

	if usedMode == ModeDynamic {
		if challenge := detectCaptcha(doc.Markdown); challenge != "" {
			if f.solver == nil {
				return nil, apperr.Newf(apperr.KindCaptchaBlocked, nil, "captcha challenge detected: %s", challenge).WithDetail("challenge_type", challenge)
			}
		}
	}

	result := &Result{
		URL: req.URL, FinalURL: finalURL, Title: doc.Title, Content: doc.Markdown,
		RawBytes: body, WordCount: wordCount(doc.Markdown), StatusCode: status,
		FetcherUsed: usedMode, FetchTimeMs: elapsedMs(start),
	}
	if req.IncludeLinks {
		result.Links = doc.Links
	}
	if req.IncludeImages {
		result.Images = doc.Images
	}
	return result, nil
}

func (f *Fetcher) fetchDynamic(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	html, finalURL, err := f.dynamicDriver.Render(ctx, req.URL, req.WaitForSelector, "")
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(finalURL)
	doc, parseErr := parseHTMLDoc(html, base)
	if parseErr != nil {
		return nil, apperr.New(apperr.KindParse, "parse rendered dom", parseErr)
	}

	if challenge := detectCaptcha(html); challenge != "" {
		if f.solver == nil {
			return nil, apperr.Newf(apperr.KindCaptchaBlocked, nil, "captcha challenge detected: %s", challenge).WithDetail("challenge_type", challenge)
		}
		siteKey := ""
		if m := regexp.MustCompile(`data-sitekey=["']([^"']+)["']`).FindStringSubmatch(html); len(m) == 2 {
			siteKey = m[1]
		}
		token, solveErr := f.solver.Solve(challenge, siteKey, req.URL)
		if solveErr != nil {
			return nil, apperr.New(apperr.KindCaptchaBlocked, "captcha solver failed", solveErr)
		}
		logger.Debugf("fetcher: captcha token obtained for %s, re-rendering", req.URL)
		html, finalURL, err = f.dynamicDriver.Render(ctx, req.URL, req.WaitForSelector, token)
		if err != nil {
			return nil, err
		}
		base, _ = url.Parse(finalURL)
		doc, parseErr = parseHTMLDoc(html, base)
		if parseErr != nil {
			return nil, apperr.New(apperr.KindParse, "parse rendered dom after solve", parseErr)
		}
	}

	result := &Result{
		URL: req.URL, FinalURL: finalURL, Title: doc.Title, Content: doc.Markdown,
		WordCount: wordCount(doc.Markdown), StatusCode: 200, FetcherUsed: ModeDynamic,
		FetchTimeMs: elapsedMs(start),
	}
	if req.IncludeLinks {
		result.Links = doc.Links
	}
	if req.IncludeImages {
		result.Images = doc.Images
	}
	return result, nil
}

func isPDF(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, []byte("%PDF-"))
}

type documentExtractor func([]byte) (string, error)

func documentExtractorFor(contentType, finalURL string) (documentExtractor, bool) {
	lowerCT := strings.ToLower(contentType)
	lowerURL := strings.ToLower(finalURL)

	switch {
	case strings.Contains(lowerCT, "officedocument.wordprocessingml") || strings.HasSuffix(lowerURL, ".docx"):
		return extractDOCX, true
	case strings.Contains(lowerCT, "officedocument.spreadsheetml") || strings.Contains(lowerCT, "ms-excel") ||
		strings.HasSuffix(lowerURL, ".xlsx") || strings.HasSuffix(lowerURL, ".xls"):
		return extractExcel, true
	case strings.Contains(lowerCT, "message/rfc822") || strings.HasSuffix(lowerURL, ".eml"):
		return extractEML, true
	default:
		return nil, false
	}
}
