// Package window bounds what a turn sends upstream: the system message
// plus the most recent N non-system messages.
package window

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/chatpane/chatpane/internal/models"
)

// Stats summarizes one trim.
type Stats struct {
	Kept       int // non-system messages retained
	Dropped    int // non-system messages discarded
	TokenCount int // estimated payload tokens after the trim
}

// Trim returns the system message plus the newest min(n, available)
// non-system messages, order preserved. The caller assigns the result
// over the live conversation, so dropped turns leave future context for
// good; that destructiveness is the documented product behavior.
func Trim(conv models.Conversation, n int) (models.Conversation, Stats) {
	if len(conv) == 0 || n < 0 {
		return conv, Stats{}
	}

	system := make(models.Conversation, 0, 1)
	rest := make(models.Conversation, 0, len(conv))
	for _, m := range conv {
		if m.Role == models.RoleSystem && len(system) == 0 {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}

	dropped := 0
	if len(rest) > n {
		dropped = len(rest) - n
		rest = rest[dropped:]
	}

	out := append(system, rest...)
	return out, Stats{Kept: len(rest), Dropped: dropped}
}

// Counter estimates token cost for an outgoing payload. A nil Counter is
// usable and falls back to a rune-based heuristic.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// Per-message formatting overhead, matching the chat wire format's role
// and separator tokens.
const messageOverhead = 4

// NewCounter builds a Counter for the given model, falling back to the
// cl100k_base encoding when the model is unknown to tiktoken.
func NewCounter(model string) *Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return &Counter{}
		}
	}
	return &Counter{enc: enc}
}

// Estimate returns the approximate token count of the messages as sent.
func (c *Counter) Estimate(msgs []models.Message) int {
	total := 0
	for _, m := range msgs {
		if c == nil || c.enc == nil {
			// Rune-count heuristic: roughly four characters per token.
			total += utf8.RuneCountInString(m.Content)/4 + messageOverhead
			continue
		}
		total += len(c.enc.Encode(m.Content, nil, nil)) + messageOverhead
	}
	return total
}
