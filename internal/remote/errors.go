package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failed turn for user-facing message generation.
type Kind int

const (
	// KindUnknown represents an unclassified failure.
	KindUnknown Kind = iota
	// KindNetwork represents a transport failure or non-success status.
	KindNetwork
	// KindMalformed represents an unparseable body or a reply with no
	// assistant text in any known shape.
	KindMalformed
	// KindProvider represents an explicit error object from the provider.
	KindProvider
	// KindPersistence represents a storage read/write failure.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed_response"
	case KindProvider:
		return "provider"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error carries the failure kind alongside the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

var userMessages = map[Kind]string{
	KindNetwork:     "Sorry, I couldn't reach the assistant service. Please try again in a moment.",
	KindMalformed:   "Sorry, I received a reply I couldn't understand. Please try again.",
	KindProvider:    "Sorry, the assistant service reported a problem with that request. Please try rephrasing.",
	KindPersistence: "Sorry, I couldn't save that exchange, but we can keep chatting.",
	KindUnknown:     "Sorry, something went wrong handling that message. Please try again.",
}

// UserMessage returns the chat-visible text for a failure. The session
// appends it as an assistant-authored message so the widget keeps working.
func UserMessage(err error) string {
	if msg, ok := userMessages[KindOf(err)]; ok {
		return msg
	}
	return userMessages[KindUnknown]
}
