package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps audit entries in memory, for tests and ephemeral
// deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Entry
	for _, e := range s.entries {
		if q.matches(e) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (s *MemoryStore) Close() error { return nil }
