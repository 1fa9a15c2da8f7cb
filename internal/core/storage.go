package core

import (
	"context"
	"time"
)

// MemoryStore is the uniform contract the long-term memory delegates to. The
// core is agnostic to the configured backend.
type MemoryStore interface {
	// Get returns nil for absent and for expired entries.
	Get(ctx context.Context, key string) (*MemoryEntry, error)
	Set(ctx context.Context, entry MemoryEntry) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// Sweep removes expired entries and reports how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// ContextStore owns per-session conversational state. Implementations must
// serialize access per session id while allowing full concurrency across
// distinct sessions.
type ContextStore interface {
	// Acquire locks the session and returns its context (created on first
	// use) together with a release function. The caller must invoke release
	// exactly once.
	Acquire(ctx context.Context, sessionID string) (*Context, func(), error)
	// Commit persists a mutated context for its session. Callers hold the
	// session lock when committing.
	Commit(ctx context.Context, convo *Context) error
	// Clear drops a session's context entirely.
	Clear(ctx context.Context, sessionID string) error
}

// Clock is injected where expiry decisions must be testable.
type Clock func() time.Time
