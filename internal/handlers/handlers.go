package handlers

import (
	"sync"
	"time"
)

// Status tracks the progress of the current run for the health endpoint.
// It is safe for concurrent use.
type Status struct {
	mu        sync.RWMutex
	started   time.Time
	runID     string
	phase     string
	lastError string
	done      bool
}

// NewStatus returns a Status whose clock starts now.
func NewStatus() *Status {
	return &Status{started: time.Now(), phase: "starting"}
}

// SetRunID records the session the status belongs to.
func (s *Status) SetRunID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = id
}

// SetPhase records the phase now running.
func (s *Status) SetPhase(phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
}

// Fail records an error that stopped the run.
func (s *Status) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
	}
	s.done = true
}

// Finish marks the run complete.
func (s *Status) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = "done"
	s.done = true
}

type statusSnapshot struct {
	runID     string
	phase     string
	lastError string
	done      bool
	uptime    time.Duration
}

func (s *Status) snapshot() statusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return statusSnapshot{
		runID:     s.runID,
		phase:     s.phase,
		lastError: s.lastError,
		done:      s.done,
		uptime:    time.Since(s.started),
	}
}

// Handlers serves the endpoints of the metrics server.
type Handlers struct {
	status *Status
}

// New creates Handlers reporting the given status. A nil status reports
// a run that never started.
func New(status *Status) *Handlers {
	if status == nil {
		status = NewStatus()
	}
	return &Handlers{status: status}
}
