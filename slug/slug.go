// Package slug derives canonical lookup keys from free-text names.
//
// The same function runs at write time (stored on the document) and at
// query time (recomputed from the caller's argument), so a slug is never
// stale relative to its source field. Two names with the same slug are a
// name collision.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps slug length in characters. After filtering the slug is pure
// ASCII, so the byte cut below never splits a rune.
const MaxLen = 45

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Make returns the canonical slug of s: accents stripped, lowercased,
// everything outside [a-z0-9\s-] removed, whitespace runs collapsed,
// trimmed, capped at MaxLen, and remaining spaces replaced with hyphens.
// Make is pure and idempotent on its own output.
func Make(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > MaxLen {
		out = strings.TrimSpace(out[:MaxLen])
	}
	return strings.ReplaceAll(out, " ", "-")
}
