package store

import (
	"sync"

	"temperature-dashboard/internal/models"
	"temperature-dashboard/internal/pipeline"
)

// RunStore keeps the latest completed pipeline run for the presentation
// layer to read, plus a bounded history of earlier runs. Each run's
// ResultSet is immutable once saved.
type RunStore struct {
	mu         sync.RWMutex
	latest     *pipeline.RunResult
	history    []*pipeline.RunResult
	maxHistory int
}

// NewRunStore creates a RunStore keeping at most maxHistory past runs.
// maxHistory <= 0 keeps only the latest run.
func NewRunStore(maxHistory int) *RunStore {
	return &RunStore{maxHistory: maxHistory}
}

// SaveRun records a completed run as the latest.
func (s *RunStore) SaveRun(result *pipeline.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = result

	if s.maxHistory <= 0 {
		return
	}
	s.history = append(s.history, result)
	if len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = s.history[over:]
	}
}

// Latest returns the most recent completed run. Returns ErrNoData before
// the first run completes.
func (s *RunStore) Latest() (*pipeline.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, models.ErrNoData
	}
	return s.latest, nil
}

// LatestRecords returns the ResultSet of the most recent run. A completed
// run with zero successes yields an empty ResultSet, not an error.
func (s *RunStore) LatestRecords() (models.ResultSet, error) {
	run, err := s.Latest()
	if err != nil {
		return nil, err
	}
	return run.Records, nil
}

// History returns the retained past runs, oldest first.
func (s *RunStore) History() []*pipeline.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*pipeline.RunResult, len(s.history))
	copy(out, s.history)
	return out
}
