// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter hands out one golang.org/x/time/rate.Limiter per host, each
// enforcing a minimum interval of rateLimitMs between successive fetches to
// that host. Workers for distinct hosts never block each other.
type hostLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	rateLimitMs int
}

func newHostLimiter(rateLimitMs int) *hostLimiter {
	return &hostLimiter{limiters: make(map[string]*rate.Limiter), rateLimitMs: rateLimitMs}
}

func (h *hostLimiter) forHost(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.limiters[host]; ok {
		return l
	}
	interval := time.Duration(h.rateLimitMs) * time.Millisecond
	if interval <= 0 {
		// No configured interval: allow effectively unbounded requests.
		l := rate.NewLimiter(rate.Inf, 1)
		h.limiters[host] = l
		return l
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	h.limiters[host] = l
	return l
}

// Wait blocks the caller until host's token bucket admits one more request,
// or ctx is done.
func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	return h.forHost(host).Wait(ctx)
}
