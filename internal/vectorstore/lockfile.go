// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package vectorstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/northbound/websearch/internal/apperr"
)

// processLock provides cross-process exclusion over a namespace's index
// directory using a PID-carrying lockfile, matching the single-writer
// requirement: only one process may hold a namespace open for writing at a
// time.
type processLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newProcessLock(dir string) *processLock {
	path := filepath.Join(dir, ".store.lock")
	return &processLock{path: path, flock: flock.New(path)}
}

// TryLock attempts to acquire the lock without blocking, writing the owning
// PID into the lockfile on success. It returns KindLockConflict if another
// process already holds it.
func (l *processLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return apperr.New(apperr.KindIO, "create index directory", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return apperr.New(apperr.KindIO, "acquire lockfile", err)
	}
	if !acquired {
		return apperr.New(apperr.KindLockConflict, "index already locked by another process", nil)
	}
	l.locked = true

	if err := os.WriteFile(l.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return apperr.New(apperr.KindIO, "write lockfile pid", err)
	}
	return nil
}

// Unlock releases the lock. Safe to call on an unlocked lock.
func (l *processLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.flock.Unlock()
}
