package builtin

import (
	"context"
	"time"

	"github.com/sandevgo/harvey/internal/core"
)

// Weather answers weather questions without a live provider. It echoes the
// resolved location and date and remembers the location in the conversation
// context so "and tomorrow?" style follow-ups keep their place.
type Weather struct {
	now core.Clock
}

func NewWeather() *Weather {
	return &Weather{now: time.Now}
}

func (s *Weather) Name() string        { return "weather" }
func (s *Weather) Description() string { return "Reports the weather for a place and day." }
func (s *Weather) Intents() []string   { return []string{"weather"} }
func (s *Weather) Priority() int       { return 0 }

func (s *Weather) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	location := "your area"
	if ev, ok := entities["location"]; ok && ev.Text != "" {
		location = ev.Text
		convo.Set("weather_location", ev.Text)
	} else if prev, ok := convo.Get("weather_location"); ok {
		location = prev
	}

	day := "today"
	date := s.now()
	if ev, ok := entities["date"]; ok && !ev.Date.IsZero() {
		date = ev.Date
		day = ev.Text
	}

	return "No forecast service is configured, but in " + location + " " + day +
		" (" + date.Format("Jan 2") + ") I'd expect the usual.", nil
}
