// Package session owns the conversation log for one widget session: it
// restores it from storage, folds user turns and remote replies into it,
// and keeps every mutation behind explicit operations.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatpane/chatpane/internal/identity"
	"github.com/chatpane/chatpane/internal/metrics"
	"github.com/chatpane/chatpane/internal/models"
	"github.com/chatpane/chatpane/internal/remote"
	"github.com/chatpane/chatpane/internal/store"
	"github.com/chatpane/chatpane/internal/window"
)

// ErrEmptyInput reports an empty or whitespace-only submission; the turn
// is a no-op.
var ErrEmptyInput = errors.New("session: empty input")

// Options carries the collaborators a Manager needs.
type Options struct {
	Store     *store.Store
	Completer remote.Completer
	Counter   *window.Counter
	Logger    *zap.Logger

	SystemPrompt string
	HistoryLimit int
	Timeout      time.Duration
}

// Manager is the conversation session manager. One Manager per widget
// session; at most one turn in flight at a time.
type Manager struct {
	id   string
	opts Options
	sm   stateMachine

	mu       sync.Mutex // guards conv and identity
	conv     models.Conversation
	identity string
}

func New(id string, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		id:   id,
		opts: opts,
		conv: models.NewConversation(opts.SystemPrompt),
	}
}

// Restore loads the persisted conversation and identity. Malformed or
// absent data falls back to a fresh conversation holding only the system
// message; a restored log missing its system message gets one prepended.
// Restore never fails the session.
func (m *Manager) Restore() {
	log := m.opts.Logger.With(zap.String("session_id", m.id))

	conv, found, err := m.opts.Store.LoadConversation(m.id)
	switch {
	case errors.Is(err, store.ErrMalformed):
		log.Warn("persisted conversation is malformed, starting fresh", zap.Error(err))
		conv = nil
	case err != nil:
		log.Error("failed to read persisted conversation", zap.Error(err))
		conv = nil
	case !found:
		conv = nil
	}

	name, err := m.opts.Store.LoadIdentity(m.id)
	if err != nil {
		log.Error("failed to read persisted identity", zap.Error(err))
		name = ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv = models.EnsureSystemFirst(conv, m.opts.SystemPrompt)
	m.identity = name
}

// SubmitTurn appends the user's message, persists, sends the trimmed log
// upstream and folds the reply back in. Remote failures of any kind come
// back as an assistant-authored message naming the failure category, not
// as an error: the session stays usable for the next turn. The only error
// returns are ErrEmptyInput and ErrBusy.
func (m *Manager) SubmitTurn(ctx context.Context, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyInput
	}
	if err := m.sm.begin(); err != nil {
		return models.Message{}, err
	}
	defer m.sm.finish()

	metrics.TurnsTotal.Inc()
	log := m.opts.Logger.With(
		zap.String("session_id", m.id),
		zap.String("turn_id", uuid.NewString()),
	)

	payload := m.beginTurn(log, text)

	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()

	replyText, err := m.opts.Completer.Complete(ctx, payload)
	if err != nil {
		kind := remote.KindOf(err)
		metrics.RemoteErrors.WithLabelValues(kind.String()).Inc()
		log.Warn("remote completion failed",
			zap.String("kind", kind.String()),
			zap.Error(err))
		replyText = remote.UserMessage(err)
	}

	reply := models.Message{
		Role:      models.RoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now(),
	}
	m.appendAndPersist(log, reply)
	return reply, nil
}

// beginTurn runs the pre-flight mutations: append the user message, try
// identity extraction, persist, and trim the live log to the transmission
// bound. Returns a copy of the trimmed log for the remote call.
func (m *Manager) beginTurn(log *zap.Logger, text string) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conv = append(m.conv, models.Message{
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})

	if name, ok := identity.Extract(text); ok {
		m.identity = name
		metrics.IdentityDetections.Inc()
		log.Info("identity detected", zap.String("name", name))
	}

	// Trimming is applied to the live conversation, so turns beyond the
	// bound are permanently out of future context. Documented product
	// behavior, carried over from the original.
	trimmed, stats := window.Trim(m.conv, m.opts.HistoryLimit)
	m.conv = trimmed
	if stats.Dropped > 0 {
		metrics.MessagesDropped.Add(float64(stats.Dropped))
	}

	m.persistLocked(log)

	tokens := m.opts.Counter.Estimate(trimmed)
	metrics.PayloadTokens.Observe(float64(tokens))
	log.Debug("submitting turn",
		zap.Int("messages", len(trimmed)),
		zap.Int("dropped", stats.Dropped),
		zap.Int("token_estimate", tokens))

	payload := make([]models.Message, len(trimmed))
	copy(payload, trimmed)
	return payload
}

func (m *Manager) appendAndPersist(log *zap.Logger, msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv = append(m.conv, msg)
	m.persistLocked(log)
}

// persistLocked writes the conversation and identity through. Persistence
// failures are diagnostic-only: the session carries on in memory for the
// turn. Callers hold m.mu.
func (m *Manager) persistLocked(log *zap.Logger) {
	if err := m.opts.Store.Flush(m.id, m.conv, m.identity); err != nil {
		metrics.RemoteErrors.WithLabelValues(remote.KindPersistence.String()).Inc()
		log.Error("failed to persist session", zap.Error(err))
	}
}

// Snapshot returns a copy of the conversation for rendering.
func (m *Manager) Snapshot() models.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(models.Conversation, len(m.conv))
	copy(out, m.conv)
	return out
}

// Identity returns the last detected visitor name, or "".
func (m *Manager) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// State reports whether the session is idle or awaiting a reply.
func (m *Manager) State() State {
	return m.sm.current()
}

// Reset discards the conversation and identity, in memory and in storage,
// leaving only the system message. While a reply is pending Reset returns
// ErrBusy; otherwise the in-flight turn would fold its stale assistant
// reply into the freshly cleared conversation.
func (m *Manager) Reset() error {
	if err := m.sm.begin(); err != nil {
		return err
	}
	defer m.sm.finish()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv = models.NewConversation(m.opts.SystemPrompt)
	m.identity = ""
	if err := m.opts.Store.DeleteSession(m.id); err != nil {
		m.opts.Logger.Error("failed to clear persisted session",
			zap.String("session_id", m.id), zap.Error(err))
	}
	return nil
}

func (m *Manager) timeout() time.Duration {
	if m.opts.Timeout <= 0 {
		return 30 * time.Second
	}
	return m.opts.Timeout
}
