package builtin

import (
	"context"
	"strings"

	"github.com/sandevgo/harvey/internal/core"
)

// Help lists the installed skills. It reads the registry live, so skills
// registered after startup show up too.
type Help struct {
	registry core.SkillRegistry
}

func NewHelp(registry core.SkillRegistry) *Help {
	return &Help{registry: registry}
}

func (s *Help) Name() string        { return "help" }
func (s *Help) Description() string { return "Lists what I can do." }
func (s *Help) Intents() []string   { return []string{"help"} }
func (s *Help) Priority() int       { return 0 }

func (s *Help) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	var b strings.Builder
	b.WriteString("Here's what I can do:\n")
	for _, sk := range s.registry.List() {
		b.WriteString("  " + sk.Name() + ": " + sk.Description() + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
