package sessions

import (
	"context"
	"sync"

	"github.com/presenttv/client/internal/models"
)

// NewInMemoryStore returns a Store backed by an in-memory map.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.SessionContext)}
}

// InMemoryStore implements Store for tests and single-process use.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.SessionContext
}

// Save stores the session under profile, replacing any previous one.
func (s *InMemoryStore) Save(_ context.Context, profile string, session models.SessionContext) error {
	s.mu.Lock()
	s.sessions[profile] = session
	s.mu.Unlock()
	return nil
}

// Find retrieves the session stored under profile.
func (s *InMemoryStore) Find(_ context.Context, profile string) (models.SessionContext, error) {
	s.mu.RLock()
	session, ok := s.sessions[profile]
	s.mu.RUnlock()
	if !ok {
		return models.SessionContext{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes the session stored under profile.
func (s *InMemoryStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[profile]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, profile)
	return nil
}

// Has reports whether a session is stored under profile. Useful for tests.
func (s *InMemoryStore) Has(profile string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[profile]
	return ok
}
