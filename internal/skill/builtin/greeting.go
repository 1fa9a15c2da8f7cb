package builtin

import (
	"context"
	"fmt"

	"github.com/sandevgo/harvey/internal/core"
)

// Greeting handles salutations. It remembers the fact that it greeted the
// session so a second greeting reads differently.
type Greeting struct{}

func NewGreeting() *Greeting {
	return &Greeting{}
}

func (s *Greeting) Name() string        { return "greeting" }
func (s *Greeting) Description() string { return "Says hello and goodbye." }
func (s *Greeting) Intents() []string   { return []string{"greeting", "farewell"} }
func (s *Greeting) Priority() int       { return 0 }

func (s *Greeting) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	if intent == "farewell" {
		convo.Delete("greeted")
		return "Goodbye!", nil
	}

	if _, ok := convo.Get("greeted"); ok {
		return "Hello again!", nil
	}
	convo.Set("greeted", "1")
	return fmt.Sprintf("Hello! I'm %s. How can I help?", core.HarveyName), nil
}
