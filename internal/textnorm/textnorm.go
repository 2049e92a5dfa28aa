// Package textnorm normalizes free text for keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case, applies NFKC, and turns every rune that is not a
// letter or digit into a single space. The result has no leading or
// trailing spaces. "What's  my BUDGET?" becomes "what s my budget".
func Normalize(s string) string {
	folded := cases.Fold().String(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSuffix(b.String(), " ")
}

// Text is a normalized message ready for phrase lookups.
type Text struct {
	padded string
}

// New normalizes s.
func New(s string) Text {
	return Text{padded: " " + Normalize(s) + " "}
}

// String returns the normalized text.
func (t Text) String() string {
	return strings.TrimSpace(t.padded)
}

// Empty reports whether nothing but punctuation or whitespace was given.
func (t Text) Empty() bool {
	return strings.TrimSpace(t.padded) == ""
}

// Has reports whether phrase occurs on word boundaries. The phrase is
// normalized the same way, so "over-budget" matches "over budget".
func (t Text) Has(phrase string) bool {
	p := Normalize(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(t.padded, " "+p+" ")
}

// First returns the first phrase that occurs, in the given order.
func (t Text) First(phrases ...string) (string, bool) {
	for _, p := range phrases {
		if t.Has(p) {
			return p, true
		}
	}
	return "", false
}
