package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/pkg/retry"
)

// MemoryRepo implements core.MemoryStore on sqlite. Writes go through a
// retrier because sqlite returns busy errors under concurrent access.
type MemoryRepo struct {
	db      *sql.DB
	retrier *retry.Retrier
	now     core.Clock
}

func NewMemoryRepo(db *sql.DB) *MemoryRepo {
	return &MemoryRepo{
		db:      db,
		retrier: retry.NewDefaultRetrier(),
		now:     time.Now,
	}
}

func (r *MemoryRepo) Get(ctx context.Context, key string) (*core.MemoryEntry, error) {
	query := `SELECT key, value, created_at, expires_at FROM memories WHERE key = ?`

	var entry core.MemoryEntry
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&entry.Key, &entry.Value, &entry.CreatedAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.StorageError{Op: "get", Err: err}
	}

	if expires.Valid {
		entry.ExpiresAt = &expires.Time
	}
	if entry.Expired(r.now()) {
		return nil, nil
	}
	return &entry, nil
}

func (r *MemoryRepo) Set(ctx context.Context, entry core.MemoryEntry) error {
	query := `INSERT INTO memories (key, value, created_at, expires_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value,
	                                         created_at = excluded.created_at,
	                                         expires_at = excluded.expires_at`

	var expires any
	if entry.ExpiresAt != nil {
		expires = *entry.ExpiresAt
	}

	err := r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, entry.Key, entry.Value, entry.CreatedAt, expires)
		return err
	})
	if err != nil {
		return &core.StorageError{Op: "set", Err: err}
	}
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, key string) error {
	err := r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE key = ?`, key)
		return err
	})
	if err != nil {
		return &core.StorageError{Op: "delete", Err: err}
	}
	return nil
}

func (r *MemoryRepo) Sweep(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memories WHERE expires_at IS NOT NULL AND expires_at <= ?`, r.now())
	if err != nil {
		return 0, &core.StorageError{Op: "sweep", Err: err}
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, &core.StorageError{Op: "sweep", Err: err}
	}
	return int(removed), nil
}
