package meme

import (
	"time"

	"github.com/google/uuid"
)

// ChatLimit bounds the idea chat history.
const ChatLimit = 20

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the idea conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage stamps a message at now.
func NewChatMessage(role, content string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now.UTC(),
	}
}

// AppendChat appends msg to a copy of history and evicts the oldest entries
// so at most ChatLimit remain.
func AppendChat(history []ChatMessage, msg ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, msg)
	return TrimChat(out)
}

// TrimChat keeps the newest ChatLimit entries in their original order.
func TrimChat(history []ChatMessage) []ChatMessage {
	if len(history) <= ChatLimit {
		return history
	}
	out := make([]ChatMessage, ChatLimit)
	copy(out, history[len(history)-ChatLimit:])
	return out
}

// Idea is a structured meme suggestion from the idea assistant.
type Idea struct {
	Topic               string `json:"topic"`
	Caption             string `json:"caption"`
	ImageDescription    string `json:"imageDescription"`
	ViralPotentialScore *int   `json:"viralPotentialScore,omitempty"`
}
