package builtin

import (
	"context"
	"time"

	"github.com/sandevgo/harvey/internal/core"
)

// Clock answers time and date questions from the host's wall clock.
type Clock struct {
	now core.Clock
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (s *Clock) Name() string        { return "clock" }
func (s *Clock) Description() string { return "Tells the current time and date." }
func (s *Clock) Intents() []string   { return []string{"time", "date"} }
func (s *Clock) Priority() int       { return 0 }

func (s *Clock) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	now := s.now()
	if intent == "date" {
		return "Today is " + now.Format("Monday, January 2, 2006") + ".", nil
	}
	return "It is " + now.Format("15:04") + ".", nil
}
