package core

import "time"

const (
	HarveyName    = "Harvey"
	HarveyVersion = "0.1.0"
)

// IntentUnknown is the sentinel intent returned when no pattern scores above
// the configured confidence threshold.
const IntentUnknown = "unknown"

// Utterance is one piece of user input. Immutable once created.
type Utterance struct {
	Text       string
	Language   string
	ReceivedAt time.Time
}

func NewUtterance(text string) Utterance {
	return Utterance{Text: text, ReceivedAt: time.Now()}
}

// Span is a half-open byte range [Start, End) into the source utterance.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SlotType names an extractor. A slot schema entry is only valid if its type
// is supported by the entity extractor.
type SlotType string

const (
	SlotNumber   SlotType = "number"
	SlotNumbers  SlotType = "numbers" // ordered list of numbers
	SlotDate     SlotType = "date"
	SlotLocation SlotType = "location"
	SlotCategory SlotType = "category"
	SlotText     SlotType = "text" // free-text span after a trigger word
)

// Slot declares one expected entity of an intent.
type Slot struct {
	Name     string   `yaml:"name"`
	Type     SlotType `yaml:"type"`
	Required bool     `yaml:"required"`
}

// EntityValue is a typed value extracted from an utterance plus the span it
// was taken from. Exactly one of the typed fields is meaningful, selected by
// Type.
type EntityValue struct {
	Type    SlotType  `json:"type"`
	Text    string    `json:"text"`
	Number  float64   `json:"number,omitempty"`
	Numbers []float64 `json:"numbers,omitempty"`
	Date    time.Time `json:"date,omitempty"`
	Span    Span      `json:"span"`
}

// RecognitionResult is the output of one recognize call. Never mutated after
// creation.
type RecognitionResult struct {
	Intent     string
	Confidence float64
	Entities   map[string]EntityValue
	// Partial is set when a required slot could not be filled.
	Partial bool
}

// PatternKind distinguishes literal phrases from wildcard templates.
type PatternKind int

const (
	PatternLiteral PatternKind = iota
	PatternWildcard
)

// IntentPattern is one matchable surface form, parsed once at load time.
// Tokens holds normalized tokens; for wildcard patterns the gap marker "*"
// appears between literal tokens.
type IntentPattern struct {
	Intent string
	Raw    string
	Kind   PatternKind
	Tokens []string
}

// Candidate is one scored intent produced by the matcher.
type Candidate struct {
	Intent     string
	Confidence float64
}

// MemoryEntry is a long-lived key/value record, distinct from per-session
// context. Expired entries are invisible to Get and removed by Sweep.
type MemoryEntry struct {
	Key       string
	Value     string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

func (e MemoryEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
