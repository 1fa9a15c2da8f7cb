package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSkill is returned when a skill name is already taken.
	// Registration is a no-op, the prior skill is retained.
	ErrDuplicateSkill = errors.New("skill name already registered")

	// ErrSkillNotFound is returned when no enabled skill declares an intent.
	ErrSkillNotFound = errors.New("no skill declares this intent")
)

// ValidationError rejects a bad pattern or slot schema at load time, before
// it can affect the live pattern table.
type ValidationError struct {
	Intent string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid intent %q: %s", e.Intent, e.Reason)
}

// ExecutionError wraps a skill failure (including timeout) caught at the
// orchestrator boundary.
type ExecutionError struct {
	Skill string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("skill %q execution failed: %v", e.Skill, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// StorageError marks a persistence backend failure. The turn degrades, it
// does not fail.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
