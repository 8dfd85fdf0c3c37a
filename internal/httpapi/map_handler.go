// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"context"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
)

type mapRequest struct {
	URL        string `json:"url"`
	MaxDepth   int    `json:"maxDepth"`
	MaxUrls    int    `json:"maxUrls"`
	PathFilter string `json:"pathFilter"`
}

type mapResponse struct {
	DiscoveredURLs []string `json:"discoveredUrls"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req mapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.URL == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "url is required", nil))
		return
	}
	if req.MaxDepth <= 0 {
		req.MaxDepth = 2
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	urls, err := s.linkMapper.Map(ctx, req.URL, req.MaxDepth, req.MaxUrls, req.PathFilter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapResponse{DiscoveredURLs: urls})
}
