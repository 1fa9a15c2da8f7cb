package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/internal/session"
	"github.com/sandevgo/harvey/internal/skill"
)

type fakeRecognizer struct {
	result core.RecognitionResult
}

func (f *fakeRecognizer) Recognize(ctx context.Context, utt core.Utterance) core.RecognitionResult {
	return f.result
}

type fakeSkill struct {
	name     string
	intents  []string
	priority int
	execute  func(ctx context.Context, convo *core.Context) (string, error)
	calls    int
}

func (f *fakeSkill) Name() string        { return f.name }
func (f *fakeSkill) Description() string { return "test skill" }
func (f *fakeSkill) Intents() []string   { return f.intents }
func (f *fakeSkill) Priority() int       { return f.priority }

func (f *fakeSkill) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	f.calls++
	if f.execute != nil {
		return f.execute(ctx, convo)
	}
	return "done", nil
}

type failingCommitStore struct {
	*session.Store
}

func (s *failingCommitStore) Commit(ctx context.Context, convo *core.Context) error {
	return &core.StorageError{Op: "commit", Err: errors.New("backend down")}
}

func testConfig() *config.NLUConfig {
	return &config.NLUConfig{
		ConfidenceThreshold: 0.6,
		MaxEntities:         10,
		ExecuteTimeout:      time.Second,
		FallbackUnknown:     "Sorry, I didn't understand that.",
		FallbackNoSkill:     "I understood you but have no matching capability.",
		FallbackError:       "Sorry, something went wrong while handling that.",
	}
}

func recognized(intent string, confidence float64) *fakeRecognizer {
	return &fakeRecognizer{result: core.RecognitionResult{
		Intent:     intent,
		Confidence: confidence,
		Entities:   map[string]core.EntityValue{},
	}}
}

func TestProcessUnknownIntentSkipsSkills(t *testing.T) {
	cfg := testConfig()
	reg := skill.NewRegistry()
	sk := &fakeSkill{name: "clock", intents: []string{"time"}}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	a := New(cfg, recognized(core.IntentUnknown, 0.3), reg, session.NewStore())
	got := a.Process(context.Background(), "s1", "gibberish")

	if got.Code != core.CodeUnknownIntent {
		t.Errorf("code = %s, want %s", got.Code, core.CodeUnknownIntent)
	}
	if got.Response != cfg.FallbackUnknown {
		t.Errorf("response = %q, want configured fallback", got.Response)
	}
	if got.Confidence != 0.3 {
		t.Errorf("confidence = %v, want raw best score 0.3", got.Confidence)
	}
	if sk.calls != 0 {
		t.Error("skill was invoked for an unknown intent")
	}
}

func TestProcessNoSkillFallbackDistinct(t *testing.T) {
	cfg := testConfig()
	a := New(cfg, recognized("time", 0.9), skill.NewRegistry(), session.NewStore())

	got := a.Process(context.Background(), "s1", "what time is it")
	if got.Code != core.CodeNoSkill {
		t.Errorf("code = %s, want %s", got.Code, core.CodeNoSkill)
	}
	if got.Response != cfg.FallbackNoSkill {
		t.Errorf("response = %q, want no-skill fallback", got.Response)
	}
	if got.Response == cfg.FallbackUnknown {
		t.Error("no-skill fallback must differ from the unknown-intent fallback")
	}
}

func TestProcessSuccessCommitsContext(t *testing.T) {
	store := session.NewStore()
	reg := skill.NewRegistry()
	sk := &fakeSkill{
		name:    "counter",
		intents: []string{"count"},
		execute: func(ctx context.Context, convo *core.Context) (string, error) {
			convo.Set("visits", "1")
			return "counted", nil
		},
	}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	a := New(testConfig(), recognized("count", 1.0), reg, store)
	got := a.Process(context.Background(), "s1", "count this")

	if got.Code != core.CodeOK {
		t.Fatalf("code = %s, want ok", got.Code)
	}
	if got.Response != "counted" {
		t.Errorf("response = %q, want counted", got.Response)
	}

	convo, release, err := store.Acquire(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if v, _ := convo.Get("visits"); v != "1" {
		t.Errorf("visits = %q, want 1 (commit missing)", v)
	}
}

func TestProcessFailureRollsBackContext(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	// Seed the session with pre-existing state.
	convo, release, err := store.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	convo.Set("mood", "calm")
	if err := store.Commit(ctx, convo); err != nil {
		t.Fatal(err)
	}
	release()

	reg := skill.NewRegistry()
	sk := &fakeSkill{
		name:    "flaky",
		intents: []string{"explode"},
		execute: func(ctx context.Context, convo *core.Context) (string, error) {
			convo.Set("mood", "panicked")
			convo.Set("halfway", "true")
			return "", errors.New("boom")
		},
	}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	a := New(cfg, recognized("explode", 0.9), reg, store)
	got := a.Process(ctx, "s1", "explode please")

	if got.Code != core.CodeExecutionError {
		t.Errorf("code = %s, want %s", got.Code, core.CodeExecutionError)
	}
	if got.Response != cfg.FallbackError {
		t.Errorf("response = %q, want apology", got.Response)
	}

	// The pre-execution context must be fully intact.
	convo, release, err = store.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if v, _ := convo.Get("mood"); v != "calm" {
		t.Errorf("mood = %q, want calm (partial mutation observed)", v)
	}
	if _, ok := convo.Get("halfway"); ok {
		t.Error("partial mutation leaked into the store")
	}
}

func TestProcessSkillPanicIsContained(t *testing.T) {
	reg := skill.NewRegistry()
	sk := &fakeSkill{
		name:    "panicky",
		intents: []string{"crash"},
		execute: func(ctx context.Context, convo *core.Context) (string, error) {
			panic("unexpected")
		},
	}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	a := New(testConfig(), recognized("crash", 0.9), reg, session.NewStore())
	got := a.Process(context.Background(), "s1", "crash now")

	if got.Code != core.CodeExecutionError {
		t.Errorf("code = %s, want %s", got.Code, core.CodeExecutionError)
	}
}

func TestProcessTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ExecuteTimeout = 20 * time.Millisecond

	reg := skill.NewRegistry()
	sk := &fakeSkill{
		name:    "slow",
		intents: []string{"stall"},
		execute: func(ctx context.Context, convo *core.Context) (string, error) {
			select {
			case <-time.After(time.Second):
				return "too late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	a := New(cfg, recognized("stall", 0.9), reg, session.NewStore())

	start := time.Now()
	got := a.Process(context.Background(), "s1", "stall forever")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Process took %v, timeout not applied", elapsed)
	}
	if got.Code != core.CodeExecutionError {
		t.Errorf("code = %s, want %s", got.Code, core.CodeExecutionError)
	}
}

func TestProcessCommitFailureDegrades(t *testing.T) {
	reg := skill.NewRegistry()
	sk := &fakeSkill{name: "ok", intents: []string{"fine"}}
	if err := reg.Register(sk); err != nil {
		t.Fatal(err)
	}

	store := &failingCommitStore{Store: session.NewStore()}
	a := New(testConfig(), recognized("fine", 0.9), reg, store)

	got := a.Process(context.Background(), "s1", "all fine")
	if got.Code != core.CodeOK {
		t.Errorf("code = %s, want ok (write-through failure is not a turn failure)", got.Code)
	}
	if !got.Degraded {
		t.Error("degraded flag not set on commit failure")
	}
	if got.Response != "done" {
		t.Errorf("response = %q, want skill response", got.Response)
	}
}

func TestIndependentAssistantsDoNotInterfere(t *testing.T) {
	mk := func(response string) *Assistant {
		reg := skill.NewRegistry()
		sk := &fakeSkill{
			name:    "echo",
			intents: []string{"say"},
			execute: func(ctx context.Context, convo *core.Context) (string, error) {
				return response, nil
			},
		}
		if err := reg.Register(sk); err != nil {
			t.Fatal(err)
		}
		return New(testConfig(), recognized("say", 1.0), reg, session.NewStore())
	}

	a1, a2 := mk("one"), mk("two")
	if got := a1.Process(context.Background(), "s", "x"); got.Response != "one" {
		t.Errorf("a1 response = %q", got.Response)
	}
	if got := a2.Process(context.Background(), "s", "x"); got.Response != "two" {
		t.Errorf("a2 response = %q", got.Response)
	}
}
