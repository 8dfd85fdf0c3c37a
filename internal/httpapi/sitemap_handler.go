// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"context"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
)

type sitemapRequest struct {
	Domain     string `json:"domain"`
	MaxUrls    int    `json:"maxUrls"`
	PathFilter string `json:"pathFilter"`
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
		return
	}

	var req sitemapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Domain == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "domain is required", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := s.sitemapResolver.Discover(ctx, req.Domain, req.MaxUrls, req.PathFilter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
