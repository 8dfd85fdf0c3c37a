// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"context"

	"github.com/northbound/websearch/internal/apperr"
)

// DynamicDriver is the external collaborator that drives a headless
// browser tab: navigate, optionally wait for a CSS selector, and return the
// final rendered DOM as HTML plus the URL the browser settled on after any
// client-side redirects. Shaped after chromedp's navigate/wait/outer-HTML
// idiom so a real implementation is a thin adapter over that library.
// captchaToken, when non-empty, is injected into the page's conventional
// response field (e.g. the g-recaptcha-response textarea) before the DOM is
// re-evaluated.
type DynamicDriver interface {
	Render(ctx context.Context, url, waitForSelector, captchaToken string) (html string, finalURL string, err error)
}

// noopDynamicDriver is the default DynamicDriver: it has no browser to
// drive, so every call fails. auto mode treats this failure as "dynamic
// unavailable" and returns the static result instead of erroring outright;
// explicit dynamic mode surfaces the failure.
type noopDynamicDriver struct{}

func (noopDynamicDriver) Render(ctx context.Context, url, waitForSelector, captchaToken string) (string, string, error) {
	return "", "", apperr.New(apperr.KindUnsupportedScheme, "no dynamic driver configured", nil)
}
