package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/medpull/medpull/internal/extract"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"hi": "Hindi",
	"zh": "Chinese (Simplified)",
	"fr": "French",
	"ar": "Arabic",
}

// Assistant answers form questions: through the chat model when one is
// configured and reachable, and from the canned tables otherwise.
type Assistant struct {
	client *Client
}

// NewAssistant creates an assistant over a chat client. A nil or
// disabled client makes every reply canned.
func NewAssistant(client *Client) *Assistant {
	return &Assistant{client: client}
}

// Reply answers a user question in the context of the current form. The
// bool result reports whether the model answered; false means the canned
// fallback did. Reply itself never fails.
func (a *Assistant) Reply(ctx context.Context, question, formContent string, fields []extract.DetectedField, lang string, history []ChatMessage) (string, bool) {
	if a.client.Enabled() {
		reply, err := a.ask(ctx, question, fields, lang, history)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, true
		}
		if err != nil {
			log.Printf("chat collaborator failed, using canned reply: %v", err)
		}
	}
	return FallbackReply(question, formContent, fields, lang), false
}

func (a *Assistant) ask(ctx context.Context, question string, fields []extract.DetectedField, lang string, history []ChatMessage) (string, error) {
	formContext := ""
	if len(fields) > 0 {
		labels := make([]string, 0, len(fields))
		for _, f := range fields {
			labels = append(labels, f.DisplayLabel)
		}
		formContext = fmt.Sprintf("The form has these fields: %s. ", strings.Join(labels, ", "))
	}

	langName := languageNames[lang]
	if langName == "" {
		langName = "English"
	}

	system := fmt.Sprintf("You are a helpful AI assistant helping users fill out medical forms. %sRespond in %s. "+
		"Be concise, helpful, and focus on helping the user understand and complete the form. "+
		"If the user provides information like \"nombre kanthi\" or \"sid 405050\", acknowledge it and help them fill the form.",
		formContext, langName)

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: question})

	return a.client.Complete(ctx, messages)
}
