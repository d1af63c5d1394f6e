package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatpane/chatpane/internal/models"
	"github.com/chatpane/chatpane/internal/render"
	"github.com/chatpane/chatpane/internal/session"
)

// sessionCookie carries the widget's session ID. HttpOnly keeps page
// scripts away from it; the widget never needs to read it.
const sessionCookie = "chatpane_session"

type Handler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

func NewHandler(sessions *session.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

type MessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	Message        models.Message `json:"message"`
	Identity       string         `json:"identity,omitempty"`
	LatestQuestion string         `json:"latest_question,omitempty"`
}

// HandleMessage submits one turn. Remote failures still return 200 with
// an assistant-authored error message, matching the widget's behavior of
// never breaking the chat over a failed call.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mgr := h.session(w, r)
	reply, err := mgr.SubmitTurn(r.Context(), req.Content)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		http.Error(w, "Message must not be empty", http.StatusBadRequest)
		return
	case errors.Is(err, session.ErrBusy):
		http.Error(w, "A reply is still pending", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to process message", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, MessageResponse{
		Message:        reply,
		Identity:       mgr.Identity(),
		LatestQuestion: mgr.Snapshot().LastUserContent(),
	})
}

// GetMessages returns the displayable transcript as JSON, oldest first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	mgr := h.session(w, r)
	h.writeJSON(w, mgr.Snapshot().NonSystem())
}

// GetTranscript returns the rendered HTML fragment for the message pane.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	mgr := h.session(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(render.Transcript(mgr.Snapshot()))); err != nil {
		h.logger.Error("failed to write transcript", zap.Error(err))
	}
}

type IdentityResponse struct {
	Identity string `json:"identity"`
}

func (h *Handler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	mgr := h.session(w, r)
	h.writeJSON(w, IdentityResponse{Identity: mgr.Identity()})
}

// ResetSession clears the conversation back to the system message only.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	mgr := h.session(w, r)
	if err := mgr.Reset(); err != nil {
		http.Error(w, "A reply is still pending", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// session resolves the Manager for the request's session cookie, minting
// a new session ID when the browser arrives without one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Manager {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return h.sessions.Get(id)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
