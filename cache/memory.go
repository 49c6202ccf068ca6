package cache

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	value   []byte
	expires time.Time
	tags    []string
}

// MemoryStore keeps entries in process with a tag -> keys index used for
// invalidation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	deps    map[string]map[string]struct{}
	gens    map[string]uint64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		deps:    make(map[string]map[string]struct{}),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Stamp(_ context.Context, tags ...string) (Stamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stamp := make(Stamp, len(tags))
	for _, tag := range tags {
		stamp[tag] = s.gens[tag]
	}
	return stamp, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, stamp Stamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tag, gen := range stamp {
		if s.gens[tag] != gen {
			return nil
		}
	}

	s.removeLocked(key)
	e := &memoryEntry{value: value, tags: stamp.Tags()}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[key] = e
	for _, tag := range e.tags {
		if s.deps[tag] == nil {
			s.deps[tag] = make(map[string]struct{})
		}
		s.deps[tag][key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		s.gens[tag]++
		for key := range s.deps[tag] {
			s.removeLocked(key)
		}
		delete(s.deps, tag)
	}
	return nil
}

// Len returns the number of live and expired entries held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// removeLocked drops key and its index entries, cleaning up tags left empty.
func (s *MemoryStore) removeLocked(key string) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	for _, tag := range e.tags {
		keys := s.deps[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.deps, tag)
		}
	}
}
