// Package render projects a conversation into the HTML fragment the
// widget displays. It holds no state of its own.
package render

import (
	"html/template"
	"strings"

	"github.com/chatpane/chatpane/internal/models"
)

var block = template.Must(template.New("message").Parse(
	`<div class="message {{.Role}}">{{.Content}}</div>` + "\n"))

type blockData struct {
	Role    string
	Content template.HTML
}

// Transcript renders the non-system messages as escaped, newline-
// preserving blocks, oldest first.
func Transcript(conv models.Conversation) template.HTML {
	var b strings.Builder
	for _, m := range conv.NonSystem() {
		_ = block.Execute(&b, blockData{
			Role:    m.Role,
			Content: preserveNewlines(m.Content),
		})
	}
	return template.HTML(b.String())
}

// preserveNewlines escapes the content first, then reintroduces line
// breaks, so user-supplied markup never reaches the page live.
func preserveNewlines(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
