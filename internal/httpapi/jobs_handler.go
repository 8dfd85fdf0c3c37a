// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"net/http"
	"strings"

	"github.com/northbound/websearch/internal/apperr"
)

type submitJobResponse struct {
	JobID string `json:"jobId"`
}

type cancelJobResponse struct {
	JobID     string `json:"jobId"`
	Cancelled bool   `json:"cancelled"`
}

// handleJobsCollection serves POST /jobs (submit, same body as
// /batch-crawl) and GET /jobs (list all tracked job ids).
func (s *Server) handleJobsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleJobSubmit(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.jobs.List())
	default:
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
	}
}

func (s *Server) handleJobSubmit(w http.ResponseWriter, r *http.Request) {
	var req batchCrawlRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.URLs) == 0 && req.Domain == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "urls or domain is required", nil))
		return
	}

	ns := s.resolveNamespace(r, req.Namespace)
	jobID := s.jobs.Submit(req.toPipelineRequest(ns))
	writeJSON(w, http.StatusOK, submitJobResponse{JobID: jobID})
}

// handleJobsItem serves GET /jobs/{id} and DELETE /jobs/{id}.
func (s *Server) handleJobsItem(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if jobID == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "job id is required", nil))
		return
	}

	switch r.Method {
	case http.MethodGet:
		status, ok := s.jobs.Status(jobID)
		if !ok {
			writeError(w, apperr.New(apperr.KindNotFound, "job not found: "+jobID, nil))
			return
		}
		writeJSON(w, http.StatusOK, status)
	case http.MethodDelete:
		cancelled, err := s.jobs.Cancel(jobID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cancelJobResponse{JobID: jobID, Cancelled: cancelled})
	default:
		writeError(w, apperr.New(apperr.KindInvalidInput, "method not allowed", nil))
	}
}
