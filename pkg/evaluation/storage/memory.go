package storage

import (
	"context"
	"sync"
	"time"

	"complyhq/compass/pkg/evaluation"
)

// MemoryStorage implements evaluation.Storage with an in-memory map.
// Intended for tests and the preview path; nothing survives a restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[string]*evaluation.Result
	ordered []string
}

// NewMemoryStorage creates an in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byID: make(map[string]*evaluation.Result)}
}

// Append persists a result to memory.
func (s *MemoryStorage) Append(ctx context.Context, result *evaluation.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutation cannot reach stored state.
	cp := *result
	s.byID[result.ID] = &cp
	s.ordered = append(s.ordered, result.ID)
	return nil
}

// Get retrieves a result by id.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*evaluation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, evaluation.ErrNotFound
}

// List returns all results in append order.
func (s *MemoryStorage) List(ctx context.Context) ([]*evaluation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*evaluation.Result, 0, len(s.ordered))
	for _, id := range s.ordered {
		if r, ok := s.byID[id]; ok {
			cp := *r
			results = append(results, &cp)
		}
	}
	return results, nil
}

// Count returns the number of stored results.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

// DeleteOlderThan removes results evaluated before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	kept := s.ordered[:0]
	for _, id := range s.ordered {
		r := s.byID[id]
		if r != nil && r.EvaluatedTime().Before(cutoff) {
			delete(s.byID, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	s.ordered = kept
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
