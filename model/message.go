package model

import (
	"strings"
	"time"
)

// Conversation roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one turn of a conversation
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// FormatPrompt flattens a conversation into a single prompt, one
// "role: content" line per message joined by newlines.
//
// Providers receive this text as a single user turn, so the model sees its
// own prior steps inline with the instructions.
func FormatPrompt(messages []Message) string {
	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = msg.Role + ": " + msg.Content
	}
	return strings.Join(lines, "\n")
}
