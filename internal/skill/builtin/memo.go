package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/internal/memory"
)

// Memo stores free-text notes in long-term memory, one note slot per
// session. The note survives restarts; per-session context does not.
type Memo struct {
	memory *memory.Memory
}

func NewMemo(m *memory.Memory) *Memo {
	return &Memo{memory: m}
}

func (s *Memo) Name() string        { return "memo" }
func (s *Memo) Description() string { return "Remembers notes and recalls them later." }
func (s *Memo) Intents() []string   { return []string{"remember", "recall"} }
func (s *Memo) Priority() int       { return 0 }

func (s *Memo) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	key := "note:" + convo.SessionID

	if intent == "recall" {
		value, ok, err := s.memory.Recall(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to recall note: %w", err)
		}
		if !ok {
			return "I don't have anything noted for you.", nil
		}
		return "You told me: " + value, nil
	}

	ev, ok := entities["note"]
	if !ok || strings.TrimSpace(ev.Text) == "" {
		return "", fmt.Errorf("nothing to remember")
	}

	note := strings.TrimSpace(ev.Text)
	note = strings.TrimSpace(strings.TrimPrefix(note, "that "))

	if err := s.memory.Remember(ctx, key, note); err != nil {
		return "", fmt.Errorf("failed to store note: %w", err)
	}
	return "Got it, I'll remember that.", nil
}
