// Package prompt assembles the ordered message list sent to the completion
// provider.
package prompt

import (
	"strings"

	"github.com/starcadet/relay/domain"
	"github.com/starcadet/relay/llm"
)

// Build produces the provider message list: persona first, then the optional
// caller-supplied system text, then the stored history in order, then the new
// user message. An override that is empty after trimming is treated as absent,
// not as an empty system turn. Messages are never reordered or deduplicated.
func Build(persona, override string, history []domain.Turn, userMessage string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history)+3)

	messages = append(messages, llm.ChatMessage{Role: string(domain.RoleSystem), Content: persona})

	if trimmed := strings.TrimSpace(override); trimmed != "" {
		messages = append(messages, llm.ChatMessage{Role: string(domain.RoleSystem), Content: override})
	}

	for _, turn := range history {
		messages = append(messages, llm.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	messages = append(messages, llm.ChatMessage{Role: string(domain.RoleUser), Content: userMessage})

	return messages
}
