// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"context"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/fetcher"
)

// crawlRequest is the POST /crawl body.
type crawlRequest struct {
	URL             string       `json:"url"`
	FetchMode       fetcher.Mode `json:"fetchMode"`
	IncludeLinks    bool         `json:"includeLinks"`
	IncludeImages   bool         `json:"includeImages"`
	WaitForSelector string       `json:"waitForSelector"`
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req crawlRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.URL == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "url is required", nil))
		return
	}
	if req.FetchMode == "" {
		req.FetchMode = fetcher.ModeAuto
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := s.fetcher.Fetch(ctx, fetcher.Request{
		URL:             req.URL,
		Mode:            req.FetchMode,
		IncludeLinks:    req.IncludeLinks,
		IncludeImages:   req.IncludeImages,
		WaitForSelector: req.WaitForSelector,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
