// Package service defines the backend-agnostic interface for task,
// auth, and chat operations.
package service

import (
	"encoding/json"
	"time"
)

// User identifies an account on the remote service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Task represents a single task item. The server assigns ID and
// timestamps; the client copy is a cache of the server record.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask holds the fields for task creation.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// TaskPatch holds a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// ChatReply is one assistant response. ToolCalls are opaque to the
// client beyond their presence; the interpretation layer may have
// mutated task state as a side effect of producing them.
type ChatReply struct {
	ConversationID int64             `json:"conversation_id"`
	Response       string            `json:"response"`
	ToolCalls      []json.RawMessage `json:"tool_calls"`
}
