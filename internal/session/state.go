package session

import (
	"errors"
	"sync"
)

// State is the session's operational state.
type State int

const (
	// StateIdle means the session will accept a new turn.
	StateIdle State = iota
	// StateAwaitingReply means a turn is in flight; submissions are
	// rejected until the reply or the error lands.
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// ErrBusy reports a submit while a previous turn is still in flight.
var ErrBusy = errors.New("session: a turn is already awaiting its reply")

// stateMachine enforces Idle ⇄ AwaitingReply. The browser original only
// disabled the submit button; here an out-of-order submission is rejected
// structurally rather than by UI affordance.
type stateMachine struct {
	mu    sync.Mutex
	state State
}

// begin transitions Idle → AwaitingReply, or reports ErrBusy.
func (m *stateMachine) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return ErrBusy
	}
	m.state = StateAwaitingReply
	return nil
}

// finish returns to Idle. Called on reply and on error alike, so a failed
// turn never wedges the session.
func (m *stateMachine) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateIdle
}

func (m *stateMachine) current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
