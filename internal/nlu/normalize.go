package nlu

import (
	"strings"
	"unicode"
)

// Normalize case-folds, strips punctuation and collapses whitespace so that
// "Hello!" and "hello" compare equal.
func Normalize(text string) string {
	return strings.Join(NormalizeTokens(text), " ")
}

// NormalizeTokens returns the normalized word tokens of text. Wildcard
// markers ("*" or ".*") and interior dots and commas in numbers ("3.5",
// "1,000") are preserved, surrounding punctuation is dropped. Keep the
// token character set in sync with tokenize below so the matcher and the
// extractor agree on numeric surface forms.
func NormalizeTokens(text string) []string {
	var toks []string
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if tok != "*" && tok != ".*" {
			tok = strings.Trim(tok, ".,")
		}
		if tok != "" {
			toks = append(toks, tok)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '*' || r == '.' || r == ',' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return toks
}

// token is a lowercased word plus its byte span in the original text.
type token struct {
	text  string
	start int
	end   int
}

// tokenize splits text into word tokens, keeping spans into the source so
// extracted entities can report where they came from.
func tokenize(text string) []token {
	var toks []token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == ',' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			toks = append(toks, newToken(text, start, i))
			start = -1
		}
	}
	if start >= 0 {
		toks = append(toks, newToken(text, start, len(text)))
	}
	return toks
}

func newToken(text string, start, end int) token {
	raw := text[start:end]
	// Trailing dots and commas are punctuation, not part of the word.
	trimmed := strings.TrimRight(raw, ".,")
	return token{
		text:  strings.ToLower(trimmed),
		start: start,
		end:   start + len(trimmed),
	}
}
