package entity

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message of a chat session.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DefaultSessionID is used when a chat client does not name its session.
const DefaultSessionID = "default"

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}
