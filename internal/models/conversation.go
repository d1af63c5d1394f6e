package models

import "time"

// Roles a message can carry.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"` // user, assistant, or system
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Conversation is the ordered message log for one session. Index 0 is
// always the system message; insertion order is chronological.
type Conversation []Message

// NewConversation returns a conversation holding only the system prompt.
func NewConversation(systemPrompt string) Conversation {
	return Conversation{{Role: RoleSystem, Content: systemPrompt, CreatedAt: time.Now()}}
}

// EnsureSystemFirst repairs a restored log so the system message sits at
// index 0. Persisted data from older builds may lack it entirely, in which
// case one is prepended; misplaced system messages are dropped in favour
// of the canonical prompt, with the remaining order preserved.
func EnsureSystemFirst(msgs []Message, systemPrompt string) Conversation {
	if len(msgs) > 0 && msgs[0].Role == RoleSystem {
		return msgs
	}
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != RoleSystem {
			rest = append(rest, m)
		}
	}
	conv := make(Conversation, 0, len(rest)+1)
	conv = append(conv, Message{Role: RoleSystem, Content: systemPrompt, CreatedAt: time.Now()})
	return append(conv, rest...)
}

// NonSystem returns the displayable tail of the conversation.
func (c Conversation) NonSystem() []Message {
	out := make([]Message, 0, len(c))
	for _, m := range c {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// LastUserContent returns the content of the most recent user message, or
// "" when the user has not spoken yet. Feeds the latest-question display
// in the widget.
func (c Conversation) LastUserContent() string {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleUser {
			return c[i].Content
		}
	}
	return ""
}
