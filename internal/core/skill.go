package core

import "context"

// Skill is the capability contract for intent handlers. Anything exposing
// this set can be registered; the registry depends on no concrete base type.
type Skill interface {
	Name() string
	Description() string
	// Intents lists the intent names this skill handles.
	Intents() []string
	// Priority breaks ties when several skills declare the same intent.
	// Higher wins.
	Priority() int
	Execute(ctx context.Context, intent string, entities map[string]EntityValue, convo *Context) (string, error)
}

// SkillRegistry resolves intents to skills. Registration is explicit; hosts
// construct skill values and call Register, the core never discovers plugins
// on its own.
type SkillRegistry interface {
	Register(skill Skill) error
	Unregister(name string)
	Resolve(intent string) (Skill, error)
	Enable(name string, enabled bool)
	List() []Skill
}
