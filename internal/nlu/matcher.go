package nlu

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sandevgo/harvey/internal/core"
)

const gapToken = "*"

// emptyGapPenalty discounts wildcard matches for every gap that consumed no
// input tokens. Tunable, validated by the matcher property tests.
const emptyGapPenalty = 0.1

// ParsePattern turns one surface form into its token representation. Patterns
// are parsed once at load time; Match never re-parses. A pattern with no
// literal tokens is malformed and rejected here, not at match time.
func ParsePattern(intent, raw string) (core.IntentPattern, error) {
	toks := NormalizeTokens(raw)

	kind := core.PatternLiteral
	literals := 0
	for i, tok := range toks {
		if tok == gapToken || tok == ".*" {
			toks[i] = gapToken
			kind = core.PatternWildcard
			continue
		}
		literals++
	}

	if literals == 0 {
		return core.IntentPattern{}, &core.ValidationError{
			Intent: intent,
			Reason: fmt.Sprintf("pattern %q has no literal tokens", raw),
		}
	}

	return core.IntentPattern{
		Intent: intent,
		Raw:    raw,
		Kind:   kind,
		Tokens: toks,
	}, nil
}

// Matcher scores utterances against the live pattern table. Loads are rare
// and exclusive, matches are concurrent.
type Matcher struct {
	mu       sync.RWMutex
	patterns []core.IntentPattern
	slots    map[string][]core.Slot
}

func NewMatcher() *Matcher {
	return &Matcher{
		slots: make(map[string][]core.Slot),
	}
}

// AddIntent merges an intent's patterns and slot schema into the table.
// Later loads append patterns unless replace is set; slots merge by name, a
// re-declared slot keeps its first definition. Duplicating a slot would make
// the extractor look for a second value that can never exist (the span is
// already consumed) and flag complete utterances as partial.
func (m *Matcher) AddIntent(intent string, patterns []core.IntentPattern, slots []core.Slot, replace bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if replace {
		kept := m.patterns[:0]
		for _, p := range m.patterns {
			if p.Intent != intent {
				kept = append(kept, p)
			}
		}
		m.patterns = kept
		delete(m.slots, intent)
	}

	m.patterns = append(m.patterns, patterns...)

	existing := m.slots[intent]
	for _, s := range slots {
		if slotDeclared(existing, s.Name) {
			continue
		}
		existing = append(existing, s)
	}
	if len(existing) > 0 {
		m.slots[intent] = existing
	}
}

func slotDeclared(slots []core.Slot, name string) bool {
	for _, s := range slots {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Slots returns the declared slot schema for an intent.
func (m *Matcher) Slots(intent string) []core.Slot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[intent]
}

// Match returns intents ranked by confidence, highest first. Ties break on
// pattern specificity (exact literal beats wildcard), then registration
// order. Pure in-memory scoring, no I/O.
func (m *Matcher) Match(text string) []core.Candidate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toks := NormalizeTokens(text)
	normalized := strings.Join(toks, " ")

	type best struct {
		score float64
		kind  core.PatternKind
		order int
	}
	bests := make(map[string]*best)

	for i, p := range m.patterns {
		score := scorePattern(p, normalized, toks)
		b, ok := bests[p.Intent]
		if !ok {
			bests[p.Intent] = &best{score: score, kind: p.Kind, order: i}
			continue
		}
		// order stays at the intent's first pattern: cross-intent ties
		// resolve on registration order of the intent, not on whichever
		// pattern happened to win within it.
		if score > b.score || (score == b.score && betterSpecificity(p.Kind, b.kind)) {
			b.score = score
			b.kind = p.Kind
		}
	}

	candidates := make([]core.Candidate, 0, len(bests))
	order := make(map[string]*best, len(bests))
	for intent, b := range bests {
		candidates = append(candidates, core.Candidate{Intent: intent, Confidence: b.score})
		order[intent] = b
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		bi, bj := order[candidates[i].Intent], order[candidates[j].Intent]
		if bi.score != bj.score {
			return bi.score > bj.score
		}
		if bi.kind != bj.kind {
			return bi.kind == core.PatternLiteral
		}
		return bi.order < bj.order
	})

	return candidates
}

func betterSpecificity(a, b core.PatternKind) bool {
	return a == core.PatternLiteral && b == core.PatternWildcard
}

// scorePattern computes the similarity of one pattern to the normalized
// utterance: 1.0 for exact literal equality; for wildcard templates the
// matched-token-ratio of required literal tokens in relative order, minus a
// penalty per wildcard gap that matched nothing, floored at zero.
func scorePattern(p core.IntentPattern, normalized string, toks []string) float64 {
	if p.Kind == core.PatternLiteral {
		if normalized == strings.Join(p.Tokens, " ") {
			return 1.0
		}
		return 0.0
	}

	matched, required, emptyGaps := 0, 0, 0
	pos := 0
	gapOpen := false

	for _, pt := range p.Tokens {
		if pt == gapToken {
			gapOpen = true
			continue
		}

		required++
		idx := indexFrom(toks, pos, pt)
		if idx < 0 {
			gapOpen = false
			continue
		}
		if gapOpen && idx == pos {
			emptyGaps++
		}
		gapOpen = false
		matched++
		pos = idx + 1
	}

	// A trailing gap with no input left also counts as unmatched.
	if gapOpen && pos >= len(toks) {
		emptyGaps++
	}

	if required == 0 {
		return 0.0
	}

	score := float64(matched)/float64(required) - emptyGapPenalty*float64(emptyGaps)
	if score < 0 {
		score = 0
	}
	return score
}

func indexFrom(toks []string, from int, want string) int {
	for i := from; i < len(toks); i++ {
		if toks[i] == want {
			return i
		}
	}
	return -1
}
