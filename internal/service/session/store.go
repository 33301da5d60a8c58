package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linqiu/chronicle/backend/internal/model/chat"
)

// ErrSessionNotFound reports an operation against an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps conversation state in memory for the process lifetime.
// Session ids are supplied by clients; sessions are created lazily on first
// reference. A single RWMutex serializes mutation, so two requests against
// the same session append in lock-acquisition order and an exchange saved
// via AppendExchange is never interleaved with another one.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
}

// NewStore bootstraps the in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
	}
}

// GetOrCreate returns the session for id, creating an empty one on first
// reference. CreatedAt is set once and never touched afterwards.
func (s *Store) GetOrCreate(_ context.Context, id string) chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id)
}

func (s *Store) getOrCreateLocked(id string) chat.Session {
	if session, ok := s.sessions[id]; ok {
		return session
	}

	session := chat.Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[id] = session
	s.messages[id] = make([]chat.Message, 0, 16)
	return session
}

// Exists reports whether the session id is currently tracked.
func (s *Store) Exists(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Get retrieves a session without creating it.
func (s *Store) Get(_ context.Context, id string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes the session and its metadata entirely.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, id)
	delete(s.messages, id)
	return nil
}

// Clear empties the session's message history. The session itself and its
// CreatedAt stay untouched.
func (s *Store) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	s.messages[id] = s.messages[id][:0]
	return nil
}

// Count returns the number of currently tracked sessions.
func (s *Store) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// List returns a summary of every tracked session, ordered by id.
func (s *Store) List(_ context.Context) []chat.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]chat.SessionSummary, 0, len(s.sessions))
	for id := range s.sessions {
		summaries = append(summaries, chat.SessionSummary{
			SessionID:    id,
			MessageCount: len(s.messages[id]),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SessionID < summaries[j].SessionID
	})
	return summaries
}

// MessageCount returns the stored history length for a session, zero when
// the session is unknown.
func (s *Store) MessageCount(_ context.Context, id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[id])
}

// Transcript returns a copy of the stored messages for the session.
func (s *Store) Transcript(_ context.Context, id string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// AppendExchange stores a completed user/assistant round-trip under one
// lock acquisition: the user turn first, then the assistant turn. The
// session is created if it is not tracked yet.
func (s *Store) AppendExchange(_ context.Context, id, userContent, assistantContent string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreateLocked(id)

	now := time.Now().UTC()
	s.messages[id] = append(s.messages[id],
		chat.Message{
			ID:        uuid.NewString(),
			SessionID: id,
			Role:      chat.RoleUser,
			Content:   userContent,
			CreatedAt: now,
		},
		chat.Message{
			ID:        uuid.NewString(),
			SessionID: id,
			Role:      chat.RoleAssistant,
			Content:   assistantContent,
			CreatedAt: now,
		},
	)
}
