// Package prompt turns a persona, its recorded exchanges and the incoming
// message into the ordered message list sent to the model, and tidies the
// model's reply before it is stored and returned.
package prompt

import (
	"persona-chatter/internal/llm"
	"persona-chatter/internal/storage"
)

// BuildMessages returns system + replayed history + user, oldest first.
// A non-empty styleDirective is appended to the system text.
// History is never truncated.
func BuildMessages(personaText, styleDirective string, history []storage.Exchange, userMessage string) []llm.Message {
	system := personaText
	if styleDirective != "" {
		system += "\n\n" + styleDirective
	}

	messages := make([]llm.Message, 0, 1+2*len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, ex := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: ex.User},
			llm.Message{Role: llm.RoleAssistant, Content: ex.Bot},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return messages
}
