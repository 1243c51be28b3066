// Package domain defines the core domain models for the relay.
package domain

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation, tagged user or assistant.
// Turns are immutable once appended; ordering is append order.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	ConversationID      string `json:"conversationId"`
	Message             string `json:"message"`
	System              string `json:"system,omitempty"`
	MaxCompletionTokens int    `json:"max_completion_tokens,omitempty"`
}

// ChatResponse is the batch-mode reply body. In streaming mode the same shape
// is emitted once per fragment as a newline-delimited JSON line.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// MediaFile describes one entry returned by GET /api/media.
type MediaFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"` // "image" or "video"
}

// MediaListResponse is the body of GET /api/media.
type MediaListResponse struct {
	Files []MediaFile `json:"files"`
}
