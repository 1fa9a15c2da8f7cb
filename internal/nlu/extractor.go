package nlu

import (
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/harvey/internal/core"
)

var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
	"forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90, "hundred": 100, "thousand": 1000,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// Trigger words for the free-text fallback heuristic, per slot type.
var triggerWords = map[core.SlotType][]string{
	core.SlotLocation: {"in", "at", "near"},
	core.SlotCategory: {"about", "for"},
	core.SlotText: {
		"remember", "note", "that", "about", "for",
		"search", "google", "wikipedia", "wiki", "up",
		"open", "launch",
	},
}

// Extractor pulls typed values out of raw text given a slot schema.
// Extraction is best-effort: slots with no confident match are simply absent
// from the result.
type Extractor struct {
	gaz         *Gazetteer
	maxEntities int
	now         core.Clock
}

func NewExtractor(gaz *Gazetteer, maxEntities int) *Extractor {
	if gaz == nil {
		gaz = DefaultGazetteer()
	}
	return &Extractor{
		gaz:         gaz,
		maxEntities: maxEntities,
		now:         time.Now,
	}
}

// Supports reports whether any extractor handles the slot type. LoadPatterns
// validates schemas against this.
func (e *Extractor) Supports(t core.SlotType) bool {
	switch t {
	case core.SlotNumber, core.SlotNumbers, core.SlotDate,
		core.SlotLocation, core.SlotCategory, core.SlotText:
		return true
	}
	return false
}

// Extract fills the slot schema from text. Spans partition: once a span is
// consumed by one slot it cannot be reused by another, and the first
// left-to-right non-overlapping match wins. The second return value reports
// a partial result (a required slot stayed empty).
func (e *Extractor) Extract(text string, schema []core.Slot) (map[string]core.EntityValue, bool) {
	entities := make(map[string]core.EntityValue)
	if strings.TrimSpace(text) == "" {
		return entities, hasRequired(schema)
	}

	toks := tokenize(text)
	var consumed []core.Span
	partial := false

	for _, slot := range schema {
		if len(entities) >= e.maxEntities {
			break
		}

		value, ok := e.extractSlot(text, toks, slot, &consumed)
		if !ok {
			if slot.Required {
				partial = true
			}
			continue
		}
		entities[slot.Name] = value
	}

	return entities, partial
}

func (e *Extractor) extractSlot(text string, toks []token, slot core.Slot, consumed *[]core.Span) (core.EntityValue, bool) {
	switch slot.Type {
	case core.SlotNumber:
		return extractNumber(text, toks, consumed)
	case core.SlotNumbers:
		return extractNumberList(text, toks, consumed)
	case core.SlotDate:
		return e.extractDate(text, toks, consumed)
	case core.SlotLocation:
		return e.extractLookup(text, toks, core.SlotLocation, e.gaz.Locations, consumed)
	case core.SlotCategory:
		return e.extractLookup(text, toks, core.SlotCategory, e.gaz.Categories, consumed)
	case core.SlotText:
		return extractFreeText(text, toks, core.SlotText, consumed)
	}
	// Unrecognized slot types are a no-op, never an error.
	return core.EntityValue{}, false
}

func parseNumberToken(tok string) (float64, bool) {
	if v, ok := numberWords[tok]; ok {
		return v, true
	}
	cleaned := strings.ReplaceAll(tok, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractNumber(text string, toks []token, consumed *[]core.Span) (core.EntityValue, bool) {
	for _, t := range toks {
		span := core.Span{Start: t.start, End: t.end}
		if overlapsAny(span, *consumed) {
			continue
		}
		if v, ok := parseNumberToken(t.text); ok {
			*consumed = append(*consumed, span)
			return core.EntityValue{
				Type:   core.SlotNumber,
				Text:   text[span.Start:span.End],
				Number: v,
				Span:   span,
			}, true
		}
	}
	return core.EntityValue{}, false
}

// extractNumberList collects every free number span left-to-right into one
// ordered list value. The reported span covers the whole run and is consumed
// in full.
func extractNumberList(text string, toks []token, consumed *[]core.Span) (core.EntityValue, bool) {
	var values []float64
	var spans []core.Span

	for _, t := range toks {
		span := core.Span{Start: t.start, End: t.end}
		if overlapsAny(span, *consumed) {
			continue
		}
		if v, ok := parseNumberToken(t.text); ok {
			values = append(values, v)
			spans = append(spans, span)
		}
	}

	if len(values) == 0 {
		return core.EntityValue{}, false
	}

	covering := core.Span{Start: spans[0].Start, End: spans[len(spans)-1].End}
	*consumed = append(*consumed, covering)
	return core.EntityValue{
		Type:    core.SlotNumbers,
		Text:    text[covering.Start:covering.End],
		Numbers: values,
		Span:    covering,
	}, true
}

func (e *Extractor) extractDate(text string, toks []token, consumed *[]core.Span) (core.EntityValue, bool) {
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, t := range toks {
		span := core.Span{Start: t.start, End: t.end}
		if overlapsAny(span, *consumed) {
			continue
		}

		var date time.Time
		switch t.text {
		case "today", "now", "tonight":
			date = today
		case "tomorrow":
			date = today.AddDate(0, 0, 1)
		case "yesterday":
			date = today.AddDate(0, 0, -1)
		default:
			wd, ok := weekdays[t.text]
			if !ok {
				continue
			}
			days := (int(wd) - int(today.Weekday()) + 7) % 7
			date = today.AddDate(0, 0, days)
		}

		*consumed = append(*consumed, span)
		return core.EntityValue{
			Type: core.SlotDate,
			Text: text[span.Start:span.End],
			Date: date,
			Span: span,
		}, true
	}
	return core.EntityValue{}, false
}

// extractLookup matches gazetteer entries first and falls back to the
// trigger-word heuristic when nothing in the vocabulary fits.
func (e *Extractor) extractLookup(text string, toks []token, slotType core.SlotType, vocab []string, consumed *[]core.Span) (core.EntityValue, bool) {
	for i, t := range toks {
		span := core.Span{Start: t.start, End: t.end}
		if overlapsAny(span, *consumed) {
			continue
		}

		for _, entry := range vocab {
			entryToks := strings.Fields(entry)
			if !matchesAt(toks, i, entryToks) {
				continue
			}
			full := core.Span{Start: t.start, End: toks[i+len(entryToks)-1].end}
			if overlapsAny(full, *consumed) {
				continue
			}
			*consumed = append(*consumed, full)
			return core.EntityValue{
				Type: slotType,
				Text: text[full.Start:full.End],
				Span: full,
			}, true
		}
	}

	return extractFreeText(text, toks, slotType, consumed)
}

// extractFreeText claims the span following the first trigger word up to the
// end of the utterance. A run of consecutive triggers ("search for",
// "remember that") is skipped as a whole so the captured span starts at the
// payload.
func extractFreeText(text string, toks []token, slotType core.SlotType, consumed *[]core.Span) (core.EntityValue, bool) {
	triggers := triggerWords[slotType]

	for i, t := range toks {
		if !containsWord(triggers, t.text) {
			continue
		}
		for i+1 < len(toks) && containsWord(triggers, toks[i+1].text) {
			i++
		}
		if i+1 >= len(toks) {
			return core.EntityValue{}, false
		}
		span := core.Span{Start: toks[i+1].start, End: toks[len(toks)-1].end}
		if overlapsAny(span, *consumed) {
			continue
		}
		*consumed = append(*consumed, span)
		return core.EntityValue{
			Type: slotType,
			Text: text[span.Start:span.End],
			Span: span,
		}, true
	}
	return core.EntityValue{}, false
}

func matchesAt(toks []token, i int, want []string) bool {
	if i+len(want) > len(toks) {
		return false
	}
	for j, w := range want {
		if toks[i+j].text != w {
			return false
		}
	}
	return true
}

func containsWord(words []string, w string) bool {
	for _, c := range words {
		if c == w {
			return true
		}
	}
	return false
}

func overlapsAny(s core.Span, consumed []core.Span) bool {
	for _, c := range consumed {
		if s.Start < c.End && c.Start < s.End {
			return true
		}
	}
	return false
}

func hasRequired(schema []core.Slot) bool {
	for _, s := range schema {
		if s.Required {
			return true
		}
	}
	return false
}
