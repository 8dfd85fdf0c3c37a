// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"context"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/search"
)

type searchRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"maxResults"`
	Freshness      string   `json:"freshness"`
	Language       string   `json:"language"`
	IncludeDomains []string `json:"includeDomains"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Query == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "query is required", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	resp, err := s.searchFacade.Search(ctx, req.Query, search.Options{
		MaxResults:     req.MaxResults,
		Freshness:      req.Freshness,
		Language:       req.Language,
		IncludeDomains: req.IncludeDomains,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
