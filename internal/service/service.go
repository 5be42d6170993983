// Package service defines the backend-agnostic interface for task,
// auth, and chat operations.
package service

import "context"

// Service defines the interface for remote backend operations.
// All HTTP calls go through this interface; commands never build
// requests directly.
type Service interface {
	// SignUp creates an account. Fails with a request-rejected error
	// on validation problems or when the email is already registered.
	SignUp(ctx context.Context, email, password string) (User, error)

	// SignIn exchanges credentials for a bearer session.
	SignIn(ctx context.Context, email, password string) (Session, error)

	// ListTasks returns the caller's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. Titles are validated locally before
	// anything is sent: non-empty after trimming, at most 200 chars.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask merges only the non-nil patch fields and returns the
	// full updated task. Fails with not-found for an unknown id.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes a task. A repeated delete of the same id
	// surfaces not-found, which callers treat as already gone.
	DeleteTask(ctx context.Context, id string) error

	// SendChat sends one conversation turn. conversationID zero means
	// a fresh conversation; the reply carries the id to use for all
	// subsequent turns.
	SendChat(ctx context.Context, conversationID int64, message string) (ChatReply, error)
}
