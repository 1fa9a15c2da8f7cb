package skill

import (
	"sort"
	"sync"

	"github.com/sandevgo/harvey/internal/core"
)

type entry struct {
	skill   core.Skill
	enabled bool
	order   int // registration sequence, higher is more recent
}

// Registry indexes installed skills by the intents they declare. Read-mostly:
// resolution is concurrent, registration and unregistration are exclusive.
type Registry struct {
	mu      sync.RWMutex
	skills  map[string]*entry
	counter int
}

func NewRegistry() *Registry {
	return &Registry{
		skills: make(map[string]*entry),
	}
}

// Register adds a skill. A name conflict returns ErrDuplicateSkill and keeps
// the prior skill untouched.
func (r *Registry) Register(s core.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skills[s.Name()]; exists {
		return core.ErrDuplicateSkill
	}

	r.counter++
	r.skills[s.Name()] = &entry{
		skill:   s,
		enabled: true,
		order:   r.counter,
	}
	return nil
}

// Unregister removes a skill by name. Idempotent: removing an absent skill
// is not an error.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.skills, name)
}

// Enable toggles a skill without unregistering it. Disabled skills are
// invisible to Resolve.
func (r *Registry) Enable(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.skills[name]; ok {
		e.enabled = enabled
	}
}

// Resolve returns the highest-priority enabled skill declaring the intent.
// Ties break toward the most recent registration. ErrSkillNotFound when no
// enabled skill declares it.
func (r *Registry) Resolve(intent string) (core.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *entry
	for _, e := range r.skills {
		if !e.enabled || !declares(e.skill, intent) {
			continue
		}
		if best == nil ||
			e.skill.Priority() > best.skill.Priority() ||
			(e.skill.Priority() == best.skill.Priority() && e.order > best.order) {
			best = e
		}
	}

	if best == nil {
		return nil, core.ErrSkillNotFound
	}
	return best.skill, nil
}

// List returns all registered skills sorted by name, enabled or not.
func (r *Registry) List() []core.Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]core.Skill, 0, len(r.skills))
	for _, e := range r.skills {
		res = append(res, e.skill)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}

func declares(s core.Skill, intent string) bool {
	for _, it := range s.Intents() {
		if it == intent {
			return true
		}
	}
	return false
}
