// Package topic canonicalizes free-text learning topics so that the same
// subject typed differently compares equal.
package topic

import "strings"

// Normalize lower-cases s, turns every character outside [a-z0-9] and
// whitespace into a space, collapses whitespace runs and trims.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Same reports whether a and b name the same topic.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

var lowSignalPhrases = map[string]struct{}{
	"i want learn new things": {},
	"learn new things":        {},
	"new things":              {},
	"hello":                   {},
	"hi":                      {},
	"help me":                 {},
	"anything":                {},
}

// IsLowSignal reports whether a topic is too vague to generate tasks from:
// empty, a filler phrase, or fewer than three words.
func IsLowSignal(s string) bool {
	n := Normalize(s)
	if n == "" {
		return true
	}
	if _, ok := lowSignalPhrases[n]; ok {
		return true
	}
	return len(strings.Fields(n)) < 3
}
