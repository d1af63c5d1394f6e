package remote

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/chatpane/chatpane/internal/models"
)

// ProviderClient calls the provider's completion endpoint directly with an
// inline credential. This is the insecure fallback for when no proxy is
// configured: the key lives in this process instead of behind the proxy.
type ProviderClient struct {
	llm         *openai.LLM
	temperature float64
}

func NewProvider(baseURL, token, model string, temperature float64) (*ProviderClient, error) {
	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &ProviderClient{llm: llm, temperature: temperature}, nil
}

func (p *ProviderClient) Complete(ctx context.Context, msgs []models.Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		content = append(content, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	resp, err := p.llm.GenerateContent(ctx, content, llms.WithTemperature(p.temperature))
	if err != nil {
		if isTransportError(ctx, err) {
			return "", newError(KindNetwork, "completion call: %w", err)
		}
		return "", newError(KindProvider, "completion call: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", newError(KindMalformed, "no assistant text in response")
	}
	return resp.Choices[0].Content, nil
}

// isTransportError separates failures to reach the provider (refused
// connections, DNS, timeouts) from errors the provider itself reported.
func isTransportError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
