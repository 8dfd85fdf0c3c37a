// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import "strings"

// captchaMarkers are substrings that show up in the rendered body of pages
// gated behind a known CAPTCHA challenge. Detection is best-effort: a false
// negative just means the SPA-signal re-fetch (or a parse error further
// downstream) surfaces instead.
var captchaMarkers = []struct {
	challengeType string
	needle        string
}{
	{"recaptcha", "g-recaptcha"},
	{"recaptcha", "www.google.com/recaptcha"},
	{"hcaptcha", "h-captcha"},
	{"turnstile", "cf-turnstile"},
	{"turnstile", "challenges.cloudflare.com"},
}

// detectCaptcha scans rendered HTML for a known challenge marker, returning
// its type (empty string if none found).
func detectCaptcha(html string) string {
	lower := strings.ToLower(html)
	for _, m := range captchaMarkers {
		if strings.Contains(lower, m.needle) {
			return m.challengeType
		}
	}
	return ""
}

// CaptchaSolver submits a challenge (type, site key, page URL) to an
// external solving service and returns the response token to inject into
// the page's conventional response field. No default implementation ships;
// dynamic mode without a configured solver fails closed with
// captcha_blocked.
type CaptchaSolver interface {
	Solve(challengeType, siteKey, pageURL string) (token string, err error)
}
