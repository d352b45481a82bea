// Package jobstore provides the in-memory job registry: per-task lifecycle
// state and outcome flags, written by each job's own goroutine and read by
// the status endpoint. Nothing is persisted; a restart forgets all history.
package jobstore

import (
	"errors"
	"sync"
	"time"

	"github.com/jonathan/deploy-agent/internal/types"
)

// ErrNotFound is returned when no job is registered under a task id.
var ErrNotFound = errors.New("job not found")

// Store is a mutex-guarded registry keyed by task id. Re-submitting a task
// replaces its record, matching the provisioner's replace semantics.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*types.JobStatus
}

// New creates an empty registry.
func New() *Store {
	return &Store{jobs: make(map[string]*types.JobStatus)}
}

// Create registers a new job in the received state, replacing any previous
// record for the same task.
func (s *Store) Create(jobID, taskID string) *types.JobStatus {
	now := time.Now().UTC()
	status := &types.JobStatus{
		JobID:     jobID,
		TaskID:    taskID,
		State:     types.StateReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[taskID] = status
	s.mu.Unlock()

	return s.snapshot(status)
}

// Get returns a copy of the job's status.
func (s *Store) Get(taskID string) (*types.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.jobs[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.snapshot(status), nil
}

// SetState advances the job to a new lifecycle state. Unknown tasks are
// ignored so a detached job can never fail on bookkeeping.
func (s *Store) SetState(taskID string, state types.JobState) {
	s.Update(taskID, func(status *types.JobStatus) {
		status.State = state
	})
}

// SetError marks the job failed with the given message.
func (s *Store) SetError(taskID, message string) {
	s.Update(taskID, func(status *types.JobStatus) {
		status.State = types.StateFailed
		status.Error = message
	})
}

// Update applies fn to the job's record under the lock and touches the
// update timestamp. Unknown tasks are ignored.
func (s *Store) Update(taskID string, fn func(*types.JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.jobs[taskID]
	if !ok {
		return
	}
	fn(status)
	status.UpdatedAt = time.Now().UTC()
}

// Len returns how many jobs the registry currently tracks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// snapshot copies a record so callers never share the stored pointer.
// Callers must hold at least a read lock.
func (s *Store) snapshot(status *types.JobStatus) *types.JobStatus {
	copied := *status
	return &copied
}
