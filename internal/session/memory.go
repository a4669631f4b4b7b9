package session

import "sync"

// MemoryStore implements Store without durable backing. Used in tests and
// for one-shot invocations that should not touch the session file.
type MemoryStore struct {
	mu      sync.RWMutex
	current Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the current session.
func (s *MemoryStore) Load() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login sets token and user.
func (s *MemoryStore) Login(token, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{Token: token, User: user}
	return nil
}

// Logout clears the session.
func (s *MemoryStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
