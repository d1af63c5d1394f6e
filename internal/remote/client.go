// Package remote submits a conversation to a completion endpoint and
// normalizes whatever comes back.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/chatpane/chatpane/internal/models"
)

// Completer is the one seam the session needs: the trimmed message list
// in, assistant text or a classified error out.
type Completer interface {
	Complete(ctx context.Context, msgs []models.Message) (string, error)
}

// Replies larger than this are cut off before parsing.
const maxReplyBytes = 1 << 20

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Messages []wireMessage `json:"messages"`
}

// ProxyClient posts the message list to a credential-holding intermediary.
// No credential travels with the request; the proxy attaches its own.
type ProxyClient struct {
	url    string
	client *http.Client
}

func NewProxy(url string) *ProxyClient {
	return &ProxyClient{url: url, client: &http.Client{}}
}

func (p *ProxyClient) Complete(ctx context.Context, msgs []models.Message) (string, error) {
	payload := wireRequest{Messages: make([]wireMessage, 0, len(msgs))}
	for _, m := range msgs {
		payload.Messages = append(payload.Messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", newError(KindMalformed, "encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", newError(KindNetwork, "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", newError(KindNetwork, "post to proxy: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", newError(KindNetwork, "read reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A failing proxy may still forward a provider error object;
		// surface that kind when it does.
		if _, perr := ParseReply(raw); KindOf(perr) == KindProvider {
			return "", perr
		}
		return "", newError(KindNetwork, "proxy returned status %d", resp.StatusCode)
	}

	return ParseReply(raw)
}
