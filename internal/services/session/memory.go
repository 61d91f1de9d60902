package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Sessions do not survive a restart
// and are not shared between instances.
type MemoryStore struct {
	// Go Pattern: sync.RWMutex lets many requests look up sessions at once
	// while Save/Delete/sweep take the exclusive lock.
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	username string
	expires  time.Time
}

// NewMemoryStore creates a store and starts a goroutine that drops expired
// entries every sweepEvery. Call Close to stop it.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweeper(sweepEvery)
	}
	return s
}

// Save stores or replaces a session.
func (s *MemoryStore) Save(_ context.Context, id, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{username: username, expires: s.now().Add(ttl)}
	return nil
}

// Lookup returns the username for a live session.
func (s *MemoryStore) Lookup(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expires) {
		return "", ErrNoSession
	}
	return e.username, nil
}

// Delete removes a session. Unknown ids are ignored.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len reports how many entries (live or not yet swept) are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweeper(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
}
