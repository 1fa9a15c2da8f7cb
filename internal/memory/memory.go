package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
)

// Memory is the long-lived key/value store surviving across sessions. It
// applies the configured retention window on write and delegates storage to
// whichever backend is configured.
type Memory struct {
	store     core.MemoryStore
	retention time.Duration
	now       core.Clock
}

func New(cfg *config.MemoryConfig, store core.MemoryStore) *Memory {
	return &Memory{
		store:     store,
		retention: cfg.Retention(),
		now:       time.Now,
	}
}

// Remember stores a value under key. With a zero retention window the entry
// never expires.
func (m *Memory) Remember(ctx context.Context, key, value string) error {
	now := m.now()
	entry := core.MemoryEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
	}
	if m.retention > 0 {
		expires := now.Add(m.retention)
		entry.ExpiresAt = &expires
	}

	if err := m.store.Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to store memory entry: %w", err)
	}
	return nil
}

// Recall returns the stored value. Expired entries are indistinguishable
// from absent ones.
func (m *Memory) Recall(ctx context.Context, key string) (string, bool, error) {
	entry, err := m.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read memory entry: %w", err)
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (m *Memory) Forget(ctx context.Context, key string) error {
	return m.store.Delete(ctx, key)
}

func (m *Memory) Sweep(ctx context.Context) (int, error) {
	return m.store.Sweep(ctx)
}
