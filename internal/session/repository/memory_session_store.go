// Package repository implements case session storage in process memory or in Redis.
package repository

import (
	"context"
	"sync"
	"time"

	sessionDomain "github.com/caseguard/caseguard/internal/session/domain"
)

type memoryEntry struct {
	session   sessionDomain.CaseSession
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in a map. It suits a single server process only.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func (s *MemorySessionStore) Save(
	_ context.Context,
	key string,
	session *sessionDomain.CaseSession,
	ttl time.Duration,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	s.sessions[key] = memoryEntry{session: *session, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, key string) (*sessionDomain.CaseSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[key]
	if !ok {
		return nil, sessionDomain.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, key)
		return nil, sessionDomain.ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}

// prune drops expired entries. Callers hold the lock.
func (s *MemorySessionStore) prune(now time.Time) {
	for key, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, key)
		}
	}
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}
