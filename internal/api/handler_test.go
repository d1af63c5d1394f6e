package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chatpane/chatpane/internal/api"
	"github.com/chatpane/chatpane/internal/models"
	"github.com/chatpane/chatpane/internal/session"
	"github.com/chatpane/chatpane/internal/store"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, msgs []models.Message) (string, error) {
	return "echo: " + msgs[len(msgs)-1].Content, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := store.New(filepath.Join(t.TempDir(), "chatpane.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zaptest.NewLogger(t)
	sessions := session.NewRegistry(session.Options{
		Store:        db,
		Completer:    echoCompleter{},
		Logger:       logger,
		SystemPrompt: "be helpful",
		HistoryLimit: 20,
		Timeout:      5 * time.Second,
	})

	srv := httptest.NewServer(api.NewRouter(logger, sessions, t.TempDir()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func postMessage(t *testing.T, client *http.Client, url, content string) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]string{"content": content})
	require.NoError(t, err)
	resp, err := client.Post(url+"/api/message", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHandleMessage(t *testing.T) {
	srv, client := newTestServer(t)

	resp := postMessage(t, client, srv.URL, "hello")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got api.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, models.RoleAssistant, got.Message.Role)
	assert.Equal(t, "echo: hello", got.Message.Content)
	assert.Equal(t, "hello", got.LatestQuestion)
}

func TestHandleMessage_EmptyInput(t *testing.T) {
	srv, client := newTestServer(t)

	resp := postMessage(t, client, srv.URL, "   ")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMessage_InvalidBody(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Post(srv.URL+"/api/message", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTranscriptAndMessages(t *testing.T) {
	srv, client := newTestServer(t)

	postMessage(t, client, srv.URL, "first question").Body.Close()

	resp, err := client.Get(srv.URL + "/api/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	var msgs []models.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "first question", msgs[0].Content)

	resp, err = client.Get(srv.URL + "/api/transcript")
	require.NoError(t, err)
	defer resp.Body.Close()
	frag, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(frag), `class="message user"`)
	assert.Contains(t, string(frag), "first question")
}

func TestIdentityEndpoint(t *testing.T) {
	srv, client := newTestServer(t)

	postMessage(t, client, srv.URL, "Hi, I'm Dana").Body.Close()

	resp, err := client.Get(srv.URL + "/api/identity")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got api.IdentityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Dana", got.Identity)
}

func TestSessionsAreCookieScoped(t *testing.T) {
	srv, alice := newTestServer(t)

	postMessage(t, alice, srv.URL, "alice speaking").Body.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	bob := &http.Client{Jar: jar}

	resp, err := bob.Get(srv.URL + "/api/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	var msgs []models.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msgs))
	assert.Empty(t, msgs, "a fresh browser must not see another session's transcript")
}

func TestReset(t *testing.T) {
	srv, client := newTestServer(t)

	postMessage(t, client, srv.URL, "hello").Body.Close()

	resp, err := client.Post(srv.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/api/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	var msgs []models.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msgs))
	assert.Empty(t, msgs)
}

func TestHealth(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
