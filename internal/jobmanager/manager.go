// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package jobmanager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/pipeline"
)

// DefaultRetention is how long a terminal job's record is kept before the
// sweep evicts it, absent an explicit configuration.
const DefaultRetention = time.Hour

// DefaultHardCap bounds the job table regardless of age; once exceeded, the
// oldest terminal job is evicted immediately.
const DefaultHardCap = 1000

// Manager submits batch pipeline runs, assigns them ids, and tracks their
// state machine and progress counters until retention expires.
type Manager struct {
	runner    *pipeline.Pipeline
	retention time.Duration

	mu   sync.RWMutex
	jobs map[string]*job

	terminalLRU *lru.Cache[string, struct{}]

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

// New builds a Manager that runs batches against runner. retention <= 0
// uses DefaultRetention; hardCap <= 0 uses DefaultHardCap.
func New(runner *pipeline.Pipeline, retention time.Duration, hardCap int) *Manager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if hardCap <= 0 {
		hardCap = DefaultHardCap
	}

	m := &Manager{
		runner:    runner,
		retention: retention,
		jobs:      make(map[string]*job),
		stopSweep: make(chan struct{}),
	}

	// Eviction here only drops the job from the lookup table; the job's
	// own goroutine has already finished by the time it is terminal and
	// thus LRU-tracked, so there's nothing left to cancel.
	m.terminalLRU, _ = lru.NewWithEvict[string, struct{}](hardCap, func(id string, _ struct{}) {
		m.mu.Lock()
		delete(m.jobs, id)
		m.mu.Unlock()
	})

	m.wg.Add(1)
	go m.sweepLoop()
	return m
}

// Submit starts req asynchronously and returns its job id immediately.
func (m *Manager) Submit(req pipeline.Request) string {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	j := newJob(id, cancel)

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	go m.run(ctx, j, req)
	return id
}

func (m *Manager) run(ctx context.Context, j *job, req pipeline.Request) {
	j.setRunning()
	result, err := m.runner.Run(ctx, req, &jobProgress{j: j})
	j.finish(result, err)

	// Tracking the job in the LRU only once it's terminal means the evict
	// callback (which deletes from m.jobs) never races an in-flight run.
	// Add must not be called while holding m.mu: eviction invokes the
	// callback synchronously, which itself locks m.mu.
	m.terminalLRU.Add(j.id, struct{}{})
}

// Status returns a read-consistent snapshot of jobID's progress, or
// (Status{}, false) if jobID is unknown (never submitted, or evicted).
func (m *Manager) Status(jobID string) (Status, bool) {
	m.mu.RLock()
	j, ok := m.jobs[jobID]
	m.mu.RUnlock()
	if !ok {
		return Status{}, false
	}
	return j.snapshot(), true
}

// Cancel requests cancellation of jobID. It returns apperr.KindNotFound if
// jobID is unknown, and true iff the job was not already terminal (and so
// will transition to StateCancelled once its in-flight work observes the
// signal).
func (m *Manager) Cancel(jobID string) (bool, error) {
	m.mu.RLock()
	j, ok := m.jobs[jobID]
	m.mu.RUnlock()
	if !ok {
		return false, apperr.New(apperr.KindNotFound, "job not found: "+jobID, nil)
	}
	return j.requestCancel(), nil
}

// List returns the ids of all jobs currently tracked (pending, running, or
// terminal but not yet evicted).
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()
	interval := m.retention / 10
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopSweep:
			return
		case <-ticker.C:
			m.sweepExpired()
		}
	}
}

func (m *Manager) sweepExpired() {
	cutoff := time.Now().Add(-m.retention)
	m.mu.RLock()
	var expired []string
	for id, j := range m.jobs {
		j.mu.RLock()
		if j.state.terminal() && j.terminalAt.Before(cutoff) {
			expired = append(expired, id)
		}
		j.mu.RUnlock()
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.mu.Lock()
		delete(m.jobs, id)
		m.mu.Unlock()
		m.terminalLRU.Remove(id)
	}
}

// Close stops the retention sweep goroutine. It does not cancel any
// in-flight jobs.
func (m *Manager) Close() {
	close(m.stopSweep)
	m.wg.Wait()
}
