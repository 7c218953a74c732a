package repository

import (
	"context"
	"sync"

	"academy-ai/internal/domain"
)

// MemorySessionStore keeps diagnostic sessions in a process-local map.
// Sessions do not survive a restart; multi-instance deployments need a
// shared implementation of domain.SessionStore instead.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	// mu serializes mutations of one session so concurrent answer
	// submissions cannot race on cursor/answers.
	mu      sync.Mutex
	session *domain.DiagnosticSession
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*sessionEntry)}
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*domain.DiagnosticSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copySession(entry.session), nil
}

func (s *MemorySessionStore) Put(ctx context.Context, session *domain.DiagnosticSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &sessionEntry{session: copySession(session)}
	return nil
}

func (s *MemorySessionStore) Update(ctx context.Context, sessionID string, fn func(*domain.DiagnosticSession) error) (*domain.DiagnosticSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := copySession(entry.session)
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.session = working
	return copySession(working), nil
}

// copySession returns a deep-enough copy: slices are cloned so callers
// cannot mutate stored state behind the lock.
func copySession(s *domain.DiagnosticSession) *domain.DiagnosticSession {
	cp := *s
	cp.Questions = append([]domain.DiagnosticQuestion(nil), s.Questions...)
	cp.Answers = append([]domain.Answer(nil), s.Answers...)
	return &cp
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
