// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/northbound/websearch/internal/jobmanager"
	"github.com/northbound/websearch/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const progressPushInterval = 500 * time.Millisecond

// handleWebSocket streams GET /ws?job_id=<id> job progress snapshots to the
// client until the job reaches a terminal state, then closes the
// connection. One connection tracks exactly one job.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		http.Error(w, "job_id query parameter is required", http.StatusBadRequest)
		return
	}

	if _, ok := s.jobs.Status(jobID); !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("httpapi: websocket upgrade failed for job %s: %v", jobID, err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(progressPushInterval)
	defer ticker.Stop()

	for range ticker.C {
		status, ok := s.jobs.Status(jobID)
		if !ok {
			return
		}
		if err := conn.WriteJSON(status); err != nil {
			logger.Warnf("httpapi: websocket write failed for job %s: %v", jobID, err)
			return
		}
		if isTerminal(status) {
			return
		}
	}
}

func isTerminal(status jobmanager.Status) bool {
	switch status.State {
	case jobmanager.StateCompleted, jobmanager.StateFailed, jobmanager.StateCancelled:
		return true
	default:
		return false
	}
}
