package store

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// MemoryStore keeps the latest scored slate per date.
type MemoryStore struct {
	mu     sync.RWMutex
	slates map[string]slate.Slate
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slates: make(map[string]slate.Slate),
	}
}

// Slate returns the stored slate for date.
func (s *MemoryStore) Slate(date string) (slate.Slate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slates[date]
	return sl, ok
}

// Game looks up one game on a stored slate.
func (s *MemoryStore) Game(date, id string) (slate.UnifiedGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slates[date]
	if !ok {
		return slate.UnifiedGame{}, false
	}
	g, ok := sl.Games[id]
	return g, ok
}

// SetSlate replaces the slate stored for its date.
func (s *MemoryStore) SetSlate(sl slate.Slate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slates[sl.Date] = sl
}

// Retain drops every slate whose date is not listed.
func (s *MemoryStore) Retain(dates []string) {
	keep := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		keep[d] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for d := range s.slates {
		if _, ok := keep[d]; !ok {
			delete(s.slates, d)
		}
	}
}

// Dates lists stored dates in ascending order.
func (s *MemoryStore) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.slates))
	for d := range s.slates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
