// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package urlnorm provides the URL normalization rules shared by the
// batch pipeline, sitemap resolver, and link mapper: lowercase scheme, default
// port removed, fragment stripped.
package urlnorm

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes raw into the form used for deduplication and
// equality checks across the ingest pipeline.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(stripDefaultPort(u.Scheme, u.Host))
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

func stripDefaultPort(scheme, host string) string {
	suffix := ""
	switch scheme {
	case "http":
		suffix = ":80"
	case "https":
		suffix = ":443"
	default:
		return host
	}
	return strings.TrimSuffix(host, suffix)
}

// Host returns the normalized host (no port) of raw, used to key the
// batch pipeline's per-host rate limiter.
func Host(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	return strings.ToLower(u.Hostname()), nil
}

// RegisteredDomain returns a best-effort "registrable domain" for host,
// i.e. the last two labels (example.com from www.example.com). It does not
// consult a public-suffix list; for the Link Mapper's same-site filter this
// approximation is sufficient because the spec only requires staying on the
// seed's site, not perfect eTLD+1 correctness.
func RegisteredDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// SameSite reports whether a and b share a registered domain.
func SameSite(a, b string) bool {
	return RegisteredDomain(a) == RegisteredDomain(b)
}
