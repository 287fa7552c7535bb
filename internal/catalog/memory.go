package catalog

import (
	"context"
	"errors"
	"sync"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	captures    map[string]Capture
	order       []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.captures = make(map[string]Capture)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveCapture(_ context.Context, c Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	if _, ok := s.captures[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.captures[c.ID] = c
	return nil
}

func (s *MemoryStore) TopCaptures(_ context.Context, limit int) ([]Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := make([]Capture, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.captures[id])
	}
	SortByScore(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
