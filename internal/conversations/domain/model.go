package domain

import (
	"errors"
	"time"
)

// Message roles. Closed set; the store constrains it too.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotFound = errors.New("conversation not found")

	// ErrSendInFlight means a send is already running for this
	// conversation. The new submission is ignored, not queued.
	ErrSendInFlight = errors.New("a send is already in flight for this conversation")
)

// Conversation is the single thread between a project and one mentor.
// The store enforces uniqueness on (project_id, mentor_id).
type Conversation struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	MentorID  string    `json:"mentor_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one side of a turn. Immutable once created; displayed in
// created_at ascending order.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
