package nlu

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/pkg/log"
)

//go:embed defaults.yaml
var defaultPatterns []byte

// Engine orchestrates the intent matcher and the entity extractor into one
// recognition step.
type Engine struct {
	cfg       *config.NLUConfig
	matcher   *Matcher
	extractor *Extractor
}

func NewEngine(cfg *config.NLUConfig, matcher *Matcher, extractor *Extractor) *Engine {
	return &Engine{
		cfg:       cfg,
		matcher:   matcher,
		extractor: extractor,
	}
}

// Recognize classifies an utterance and extracts entities for the winning
// intent. It never fails on malformed text: anything below the confidence
// threshold comes back as the "unknown" intent carrying the best raw score,
// with entity extraction skipped since there is no reliable schema.
func (e *Engine) Recognize(ctx context.Context, utt core.Utterance) core.RecognitionResult {
	candidates := e.matcher.Match(utt.Text)

	result := core.RecognitionResult{
		Intent:   core.IntentUnknown,
		Entities: make(map[string]core.EntityValue),
	}
	if len(candidates) == 0 {
		return result
	}

	top := candidates[0]
	result.Confidence = top.Confidence
	if top.Confidence < e.cfg.ConfidenceThreshold {
		log.FromCtx(ctx).Debug().
			Str("intent", top.Intent).
			Float64("confidence", top.Confidence).
			Msg("best intent below threshold")
		return result
	}

	result.Intent = top.Intent
	result.Entities, result.Partial = e.extractor.Extract(utt.Text, e.matcher.Slots(top.Intent))
	return result
}

// LoadPatterns parses an external pattern definition and merges it into the
// live table intent-by-intent. Later loads for the same intent append unless
// replace is set. Invalid intents are skipped and reported; valid intents
// from the same batch still load.
func (e *Engine) LoadPatterns(data []byte, replace bool) error {
	defs, errs := parsePatternFile(data, e.extractor.Supports)

	for _, def := range defs {
		e.matcher.AddIntent(def.Name, def.parsed, def.Slots, replace)
	}

	return joinLoadErrors(errs)
}

// LoadPatternsFile loads a pattern definition from disk, falling back to the
// embedded defaults when the file does not exist.
func (e *Engine) LoadPatternsFile(ctx context.Context, path string, replace bool) error {
	logger := log.FromCtx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read pattern file: %w", err)
		}
		logger.Debug().Str("path", path).Msg("no pattern file, loading embedded defaults")
		data = defaultPatterns
	} else {
		logger.Info().Str("path", path).Msg("loading pattern file")
	}

	return e.LoadPatterns(data, replace)
}
