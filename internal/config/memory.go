package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/harvey/pkg/log"
)

type MemoryConfig struct {
	// RetentionDays is the default lifetime of a memory entry. Zero keeps
	// entries forever.
	RetentionDays int `env:"MEMORY_RETENTION_DAYS" envDefault:"30"`
	// SweepInterval is how often the background sweeper removes expired
	// entries.
	SweepInterval time.Duration `env:"MEMORY_SWEEP_INTERVAL" envDefault:"1h"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	if c.RetentionDays < 0 {
		log.FromCtx(ctx).Fatal().
			Int("retention_days", c.RetentionDays).
			Msg("retention days must not be negative")
	}
	return c
}

func (c MemoryConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
