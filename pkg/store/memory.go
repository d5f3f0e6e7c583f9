package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in memory. The zero value is not usable; use
// [NewMemoryStore].
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	return &rec, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit = min(listLimit(limit), len(s.order))
	out := make([]Record, 0, limit)
	for _, id := range slices.Backward(s.order) {
		if len(out) == limit {
			break
		}
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
