// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package httpapi exposes the /api/v1 HTTP surface: crawl, sitemap, map,
// batch-crawl, chunk, search, cache, and job CRUD, plus a websocket feed of
// job progress.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("httpapi: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind, _ := apperr.KindOf(err)
	writeJSON(w, apperr.HTTPStatus(kind), apperr.ToEnvelope(err))
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.KindInvalidInput, "invalid JSON body", err)
	}
	return nil
}
