package nlu

import (
	"errors"
	"fmt"

	"github.com/sandevgo/harvey/internal/core"
	"gopkg.in/yaml.v3"
)

// PatternFile is the external declarative intent definition consumed by
// LoadPatterns. Intents are an ordered list so registration order (and with
// it tie-breaking) is deterministic.
type PatternFile struct {
	Intents []IntentDef `yaml:"intents"`
}

type IntentDef struct {
	Name     string      `yaml:"name"`
	Patterns []string    `yaml:"patterns"`
	Slots    []core.Slot `yaml:"slots"`

	// parsed is filled during validation so patterns are parsed exactly once
	// at load time.
	parsed []core.IntentPattern
}

// parsePatternFile validates and parses intent definitions. Validation is
// all-or-nothing per intent: a bad intent is reported and skipped, good
// intents from the same batch still load.
func parsePatternFile(data []byte, supports func(core.SlotType) bool) ([]IntentDef, []error) {
	var file PatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, []error{fmt.Errorf("failed to parse pattern file: %w", err)}
	}

	var valid []IntentDef
	var errs []error

	for _, def := range file.Intents {
		validated, err := validateIntent(def, supports)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, validated)
	}
	return valid, errs
}

func validateIntent(def IntentDef, supports func(core.SlotType) bool) (IntentDef, error) {
	if def.Name == "" {
		return def, &core.ValidationError{Intent: def.Name, Reason: "intent name is empty"}
	}
	if def.Name == core.IntentUnknown {
		return def, &core.ValidationError{Intent: def.Name, Reason: "intent name is reserved"}
	}
	if len(def.Patterns) == 0 {
		return def, &core.ValidationError{Intent: def.Name, Reason: "no patterns declared"}
	}

	def.parsed = make([]core.IntentPattern, 0, len(def.Patterns))
	for _, raw := range def.Patterns {
		p, err := ParsePattern(def.Name, raw)
		if err != nil {
			return def, err
		}
		def.parsed = append(def.parsed, p)
	}

	seen := make(map[string]bool)
	for i, slot := range def.Slots {
		if slot.Name == "" {
			return def, &core.ValidationError{Intent: def.Name, Reason: "slot with empty name"}
		}
		if seen[slot.Name] {
			return def, &core.ValidationError{
				Intent: def.Name,
				Reason: fmt.Sprintf("duplicate slot %q", slot.Name),
			}
		}
		seen[slot.Name] = true

		// The slot type defaults to the slot name.
		if slot.Type == "" {
			def.Slots[i].Type = core.SlotType(slot.Name)
		}
		if !supports(def.Slots[i].Type) {
			return def, &core.ValidationError{
				Intent: def.Name,
				Reason: fmt.Sprintf("slot %q has unsupported type %q", slot.Name, def.Slots[i].Type),
			}
		}
	}
	return def, nil
}

func joinLoadErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
