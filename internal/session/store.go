package session

import (
	"context"
	"sync"

	"github.com/sandevgo/harvey/internal/core"
)

// Store keeps per-session conversational contexts in memory. Access is
// serialized per session id (one in-flight request owns a session
// exclusively) while distinct sessions proceed fully concurrently.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*state
}

type state struct {
	mu    sync.Mutex
	convo *core.Context
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*state),
	}
}

func (s *Store) state(sessionID string) *state {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		st = &state{convo: core.NewContext(sessionID)}
		s.sessions[sessionID] = st
	}
	return st
}

// Acquire locks the session and hands out a working copy of its context.
// Mutations to the copy become visible only through Commit; releasing
// without committing discards them.
func (s *Store) Acquire(ctx context.Context, sessionID string) (*core.Context, func(), error) {
	st := s.state(sessionID)

	locked := make(chan struct{})
	go func() {
		st.mu.Lock()
		close(locked)
	}()

	select {
	case <-locked:
	case <-ctx.Done():
		// The lock still lands in the spawned goroutine; undo it.
		go func() {
			<-locked
			st.mu.Unlock()
		}()
		return nil, nil, ctx.Err()
	}

	var once sync.Once
	release := func() {
		once.Do(st.mu.Unlock)
	}
	return st.convo.Clone(), release, nil
}

// Commit stores the mutated context. The caller holds the session lock from
// Acquire; the stored value is a private copy so the caller may keep
// mutating its own.
func (s *Store) Commit(ctx context.Context, convo *core.Context) error {
	st := s.state(convo.SessionID)
	st.convo = convo.Clone()
	return nil
}

// Clear drops a session entirely. Idempotent.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
