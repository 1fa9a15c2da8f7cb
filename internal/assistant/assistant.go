package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/pkg/log"
)

// Recognizer is the NLU engine seen from the orchestrator's side.
type Recognizer interface {
	Recognize(ctx context.Context, utt core.Utterance) core.RecognitionResult
}

// Assistant runs the full request/response cycle: recognize, resolve,
// execute, commit. Construct one per host; instances share nothing, so
// several may coexist (tests rely on that).
type Assistant struct {
	cfg      *config.NLUConfig
	nlu      Recognizer
	registry core.SkillRegistry
	contexts core.ContextStore
}

func New(cfg *config.NLUConfig, nlu Recognizer, registry core.SkillRegistry, contexts core.ContextStore) *Assistant {
	return &Assistant{
		cfg:      cfg,
		nlu:      nlu,
		registry: registry,
		contexts: contexts,
	}
}

// Process handles one utterance for one session. It never returns an error
// to its caller: every failure mode collapses into the Result, and context
// mutations commit only when the skill succeeds.
func (a *Assistant) Process(ctx context.Context, sessionID, text string) core.Result {
	logger := log.FromCtx(ctx)
	utt := core.NewUtterance(text)

	degraded := false
	convo, release, err := a.contexts.Acquire(ctx, sessionID)
	if err != nil {
		// Best-effort: answer the turn with a throwaway context.
		logger.Error().Err(err).Str("session", sessionID).Msg("failed to acquire session context")
		convo = core.NewContext(sessionID)
		release = func() {}
		degraded = true
	}
	defer release()

	rec := a.nlu.Recognize(ctx, utt)
	result := core.Result{
		Intent:     rec.Intent,
		Confidence: rec.Confidence,
		Degraded:   degraded,
	}

	if rec.Intent == core.IntentUnknown {
		result.Code = core.CodeUnknownIntent
		result.Response = a.cfg.FallbackUnknown
		return result
	}

	sk, err := a.registry.Resolve(rec.Intent)
	if err != nil {
		if !errors.Is(err, core.ErrSkillNotFound) {
			logger.Error().Err(err).Str("intent", rec.Intent).Msg("skill resolution failed")
		}
		result.Code = core.CodeNoSkill
		result.Response = a.cfg.FallbackNoSkill
		return result
	}

	logger.Debug().
		Str("session", sessionID).
		Str("intent", rec.Intent).
		Str("skill", sk.Name()).
		Float64("confidence", rec.Confidence).
		Msg("dispatching")

	response, err := a.execute(ctx, sk, rec, convo)
	if err != nil {
		execErr := &core.ExecutionError{Skill: sk.Name(), Err: err}
		logger.Error().Err(execErr).Str("session", sessionID).Msg("skill execution failed")
		// No commit: the stored context stays at its pre-execution state.
		result.Code = core.CodeExecutionError
		result.Response = a.cfg.FallbackError
		return result
	}

	if !degraded {
		if err := a.contexts.Commit(ctx, convo); err != nil {
			logger.Error().Err(err).Str("session", sessionID).Msg("failed to persist session context")
			result.Degraded = true
		}
	}

	result.Code = core.CodeOK
	result.Response = response
	return result
}

// execute invokes the skill under the configured timeout. On timeout the
// invocation is cancelled best-effort through its context; a skill that
// ignores cancellation keeps running against a context copy that is never
// committed.
func (a *Assistant) execute(ctx context.Context, sk core.Skill, rec core.RecognitionResult, convo *core.Context) (string, error) {
	execCtx := ctx
	cancel := context.CancelFunc(func() {})
	if a.cfg.ExecuteTimeout > 0 {
		execCtx, cancel = context.WithTimeout(ctx, a.cfg.ExecuteTimeout)
	}
	defer cancel()

	type outcome struct {
		response string
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		resp, err := sk.Execute(execCtx, rec.Intent, rec.Entities, convo)
		done <- outcome{response: resp, err: err}
	}()

	select {
	case out := <-done:
		return out.response, out.err
	case <-execCtx.Done():
		return "", execCtx.Err()
	}
}
