package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/harvey/pkg/log"
)

type NLUConfig struct {
	// ConfidenceThreshold is the minimum score for a recognized intent.
	// Anything below maps to the "unknown" sentinel.
	ConfidenceThreshold float64 `env:"NLU_CONFIDENCE_THRESHOLD" envDefault:"0.6"`
	// MaxEntities caps how many slots one extraction may fill.
	MaxEntities int `env:"NLU_MAX_ENTITIES" envDefault:"10"`
	// ExecuteTimeout bounds a single skill execution.
	ExecuteTimeout time.Duration `env:"SKILL_EXECUTE_TIMEOUT" envDefault:"10s"`

	FallbackUnknown string `env:"FALLBACK_UNKNOWN" envDefault:"Sorry, I didn't understand that."`
	FallbackNoSkill string `env:"FALLBACK_NO_SKILL" envDefault:"I understood you but have no matching capability."`
	FallbackError   string `env:"FALLBACK_ERROR" envDefault:"Sorry, something went wrong while handling that."`
}

// NewNLUConfig parses and validates the NLU configuration. An out-of-range
// threshold is the one unrecoverable configuration error and prevents
// startup.
func NewNLUConfig(ctx context.Context) *NLUConfig {
	c := &NLUConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse NLU config")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		log.FromCtx(ctx).Fatal().
			Float64("threshold", c.ConfidenceThreshold).
			Msg("confidence threshold must be within [0,1]")
	}
	if c.MaxEntities < 1 {
		log.FromCtx(ctx).Fatal().
			Int("max_entities", c.MaxEntities).
			Msg("max entities must be positive")
	}
	return c
}
