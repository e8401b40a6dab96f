package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sweetpotato0/deepresearch/memory"
)

// InMemoryStore implements memory.Store using in-process storage. It is the
// default backend; history survives only as long as the process.
type InMemoryStore struct {
	threads map[string][]*memory.Entry
	mu      sync.RWMutex
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		threads: make(map[string][]*memory.Entry),
	}
}

// Append records an entry in its thread's history
func (s *InMemoryStore) Append(ctx context.Context, entry *memory.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ThreadID == "" {
		return fmt.Errorf("entry thread ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[entry.ThreadID] = append(s.threads[entry.ThreadID], entry)
	return nil
}

// History returns a thread's entries in insertion order, newest last. A
// non-positive limit returns everything.
func (s *InMemoryStore) History(ctx context.Context, threadID string, limit int) ([]*memory.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.threads[threadID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]*memory.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Clear removes all recorded history
func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = make(map[string][]*memory.Entry)
	return nil
}

// Count returns the number of entries recorded for a thread
func (s *InMemoryStore) Count(threadID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads[threadID])
}
