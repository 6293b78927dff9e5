// Package session maps session ids to the uploaded files backing them.
//
// Entries are created after a successful upload and removed by cleanup.
// There is no expiry, capacity bound or persistence: the store lives exactly
// as long as the process.
package session

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when no entry exists for the id.
var ErrNotFound = errors.New("session not found")

// Store is a concurrency-safe session id -> artifact path mapping.
// The zero value is not usable; create one with NewStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Put records the artifact path for id. Sessions are never updated after
// creation, so callers only Put freshly generated ids.
func (s *Store) Put(id, path string) {
	s.mu.Lock()
	s.entries[id] = path
	s.mu.Unlock()
}

// Get returns the artifact path for id, or ErrNotFound.
// A nil error says nothing about whether the file still exists on disk.
func (s *Store) Get(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.entries[id]
	if !ok {
		return "", ErrNotFound
	}
	return path, nil
}

// Remove deletes the entry for id and reports whether one existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Drain removes every entry and returns what was removed.
func (s *Store) Drain() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := s.entries
	s.entries = make(map[string]string)
	return drained
}
