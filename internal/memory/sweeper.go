package memory

import (
	"context"
	"time"

	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/pkg/log"
)

// Sweeper periodically removes expired entries. It runs independently of the
// request cycle and shares no lock with per-session contexts.
type Sweeper struct {
	store    core.MemoryStore
	interval time.Duration
	stop     chan struct{}
}

func NewSweeper(store core.MemoryStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			removed, err := s.store.Sweep(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("memory sweep failed")
				continue
			}
			if removed > 0 {
				logger.Debug().Int("removed", removed).Msg("memory sweep")
			}
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return nil
}
