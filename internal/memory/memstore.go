package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/harvey/internal/core"
)

// InMemoryStore is the default backend: a process-local table. Suitable for
// tests and single-host setups that do not need memory to survive restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]core.MemoryEntry
	now     core.Clock
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]core.MemoryEntry),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Get(ctx context.Context, key string) (*core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || entry.Expired(s.now()) {
		return nil, nil
	}
	return &entry, nil
}

func (s *InMemoryStore) Set(ctx context.Context, entry core.MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *InMemoryStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports live plus expired-but-unswept entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
