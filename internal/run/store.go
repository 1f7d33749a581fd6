package run

import (
	"sync"
	"time"
)

// Store holds the most recent run list fetched from the backend. Every
// Replace supersedes the previous list; nothing is merged or persisted.
type Store struct {
	mu        sync.RWMutex
	runs      []Run
	index     map[string]int
	updatedAt time.Time
	changeCh  chan struct{}
}

func NewStore() *Store {
	return &Store{
		index:    make(map[string]int),
		changeCh: make(chan struct{}, 1),
	}
}

// Replace swaps in a freshly fetched run list, keeping backend order.
func (s *Store) Replace(runs []Run) {
	s.mu.Lock()
	s.runs = make([]Run, len(runs))
	copy(s.runs, runs)
	s.index = make(map[string]int, len(runs))
	for i, r := range s.runs {
		s.index[r.ID] = i
	}
	s.updatedAt = time.Now()
	s.mu.Unlock()
	s.notify()
}

// Get looks a run up by its full ID.
func (s *Store) Get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Run{}, false
	}
	return s.runs[i], true
}

func (s *Store) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Run, len(s.runs))
	copy(result, s.runs)
	return result
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// ActiveRuns counts the runs that have not finished.
func (s *Store) ActiveRuns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.runs {
		if !s.runs[i].IsTerminal() {
			count++
		}
	}
	return count
}

// UpdatedAt is the time of the last Replace, zero before the first fetch.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Store) Changes() <-chan struct{} {
	return s.changeCh
}

func (s *Store) notify() {
	select {
	case s.changeCh <- struct{}{}:
	default:
	}
}
