// Package identity guesses the visitor's name from what they type. It is
// a heuristic: no validation, and the last detected value wins.
package identity

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Phrasings that introduce a name. The phrase match is case-insensitive
// but the captured name must be capitalised, so "I'm sure you know" does
// not capture; regexp2 is used for its .NET-style inline (?-i:) groups.
var patterns = []*regexp2.Regexp{
	regexp2.MustCompile(`(?i)\bmy\s+name\s+is\s+(?-i:([A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)?))`, 0),
	regexp2.MustCompile(`(?i)\bcall\s+me\s+(?-i:([A-Z][\w'-]*))`, 0),
	regexp2.MustCompile(`(?i)\bi\s+am\s+(?-i:([A-Z][\w'-]*))`, 0),
	regexp2.MustCompile(`(?i)\bi'm\s+(?-i:([A-Z][\w'-]*))`, 0),
}

// Extract returns the first name-like capture in text, trimmed of
// trailing punctuation. ok is false when no pattern matches; callers
// leave any previously stored identity alone in that case.
func Extract(text string) (string, bool) {
	for _, p := range patterns {
		m, err := p.FindStringMatch(text)
		if err != nil || m == nil {
			continue
		}
		if g := m.GroupByNumber(1); g != nil {
			name := strings.TrimRight(g.String(), ".,!?")
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
