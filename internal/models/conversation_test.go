package models_test

import (
	"testing"

	"github.com/chatpane/chatpane/internal/models"
)

func TestEnsureSystemFirst_PrependsWhenMissing(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	}

	conv := models.EnsureSystemFirst(msgs, "be helpful")
	if len(conv) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv))
	}
	if conv[0].Role != models.RoleSystem || conv[0].Content != "be helpful" {
		t.Fatalf("expected system message first, got %+v", conv[0])
	}
	if conv[1].Content != "hi" || conv[2].Content != "hello" {
		t.Fatalf("remaining order not preserved: %+v", conv[1:])
	}
}

func TestEnsureSystemFirst_KeepsExisting(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleSystem, Content: "original prompt"},
		{Role: models.RoleUser, Content: "hi"},
	}

	conv := models.EnsureSystemFirst(msgs, "replacement prompt")
	if len(conv) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv))
	}
	if conv[0].Content != "original prompt" {
		t.Fatalf("existing system message should be kept, got %q", conv[0].Content)
	}
}

func TestEnsureSystemFirst_DropsMisplacedSystem(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleSystem, Content: "stray"},
		{Role: models.RoleAssistant, Content: "hello"},
	}

	conv := models.EnsureSystemFirst(msgs, "canonical")
	if conv[0].Role != models.RoleSystem || conv[0].Content != "canonical" {
		t.Fatalf("expected canonical system message first, got %+v", conv[0])
	}
	for _, m := range conv[1:] {
		if m.Role == models.RoleSystem {
			t.Fatalf("stray system message survived: %+v", conv)
		}
	}
}

func TestLastUserContent(t *testing.T) {
	conv := models.NewConversation("prompt")
	if got := conv.LastUserContent(); got != "" {
		t.Fatalf("expected empty latest question, got %q", got)
	}

	conv = append(conv,
		models.Message{Role: models.RoleUser, Content: "first"},
		models.Message{Role: models.RoleAssistant, Content: "reply"},
		models.Message{Role: models.RoleUser, Content: "second"},
	)
	if got := conv.LastUserContent(); got != "second" {
		t.Fatalf("expected %q, got %q", "second", got)
	}
}

func TestNonSystem(t *testing.T) {
	conv := models.NewConversation("prompt")
	conv = append(conv, models.Message{Role: models.RoleUser, Content: "hi"})

	visible := conv.NonSystem()
	if len(visible) != 1 || visible[0].Content != "hi" {
		t.Fatalf("unexpected visible messages: %+v", visible)
	}
}
