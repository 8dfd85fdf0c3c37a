// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package jobmanager

import (
	"context"
	"sync"
	"time"

	"github.com/northbound/websearch/internal/pipeline"
)

// job is the manager's internal record; Status() renders a read-consistent
// snapshot from it under RLock.
type job struct {
	mu sync.RWMutex

	id          string
	state       State
	submittedAt time.Time
	terminalAt  time.Time

	total     int
	completed int
	failed    int
	cancelled int

	result          *pipeline.Result
	errMsg          string
	cancelFn        context.CancelFunc
	cancelRequested bool
}

func newJob(id string, cancelFn context.CancelFunc) *job {
	return &job{
		id:          id,
		state:       StatePending,
		submittedAt: time.Now(),
		cancelFn:    cancelFn,
	}
}

func (j *job) snapshot() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var result interface{}
	if j.result != nil {
		result = j.result
	}
	return Status{
		JobID:       j.id,
		State:       j.state,
		SubmittedAt: j.submittedAt,
		Total:       j.total,
		Completed:   j.completed,
		Failed:      j.failed,
		Cancelled:   j.cancelled,
		Result:      result,
		Error:       j.errMsg,
	}
}

func (j *job) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == StatePending {
		j.state = StateRunning
	}
}

// requestCancel marks the job for cancellation and fires its context's
// cancel func. Returns false if the job was already terminal.
func (j *job) requestCancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.terminal() {
		return false
	}
	j.cancelRequested = true
	j.cancelFn()
	return true
}

// finish records the terminal outcome of the pipeline run. A request to
// cancel takes priority in labeling the terminal state over a plain
// completion, since the cancellation raced the run to completion.
func (j *job) finish(result *pipeline.Result, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.terminalAt = time.Now()
	switch {
	case err != nil:
		j.state = StateFailed
		j.errMsg = err.Error()
	case j.cancelRequested:
		j.state = StateCancelled
	default:
		j.state = StateCompleted
	}
}

// jobProgress adapts a job to pipeline.Progress, translating the
// pipeline's per-URL callbacks into the job's counters.
type jobProgress struct {
	j *job
}

func (p *jobProgress) OnTotal(total int) {
	p.j.mu.Lock()
	p.j.total = total
	p.j.mu.Unlock()
}

func (p *jobProgress) OnURLStart() {}

func (p *jobProgress) OnURLDone(failed, cancelled bool) {
	p.j.mu.Lock()
	defer p.j.mu.Unlock()
	switch {
	case cancelled:
		p.j.cancelled++
	case failed:
		p.j.failed++
	default:
		p.j.completed++
	}
}
