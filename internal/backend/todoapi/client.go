// Package todoapi implements service.Service against the task backend's
// REST API, routed through the authenticated gateway.
package todoapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskchat/internal/apierr"
	"taskchat/internal/gateway"
	"taskchat/internal/service"
)

const (
	// MaxTitleLen is the server's title limit, enforced locally too.
	MaxTitleLen = 200

	// MaxDescriptionLen is the server's description limit.
	MaxDescriptionLen = 2000

	// APITimeout is the timeout for CRUD and auth calls.
	APITimeout = 10 * time.Second

	// ChatTimeout is the timeout for chat turns; the interpretation
	// layer behind them can be slow.
	ChatTimeout = 90 * time.Second
)

// Client implements service.Service using the backend REST API.
type Client struct {
	gw *gateway.Gateway
}

// New creates a backend client on the given gateway.
func New(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// SignUp creates an account.
func (c *Client) SignUp(ctx context.Context, email, password string) (service.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return service.User{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var user service.User
	err := c.gw.Send(ctx, http.MethodPost, "/auth/signup", signInRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &user)
	if err != nil {
		return service.User{}, err
	}
	return user, nil
}

// SignIn exchanges credentials for a bearer session.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return service.Session{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var sess service.Session
	err := c.gw.Send(ctx, http.MethodPost, "/auth/signin", signInRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &sess)
	if err != nil {
		return service.Session{}, err
	}
	if sess.AccessToken == "" {
		return service.Session{}, fmt.Errorf("sign-in response carried no access token")
	}
	return sess, nil
}

// ListTasks returns the caller's tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var tasks []service.Task
	if err := c.gw.Send(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task after local validation.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return service.Task{}, apierr.NewValidation("title is required")
	}
	if len(t.Title) > MaxTitleLen {
		return service.Task{}, apierr.NewValidation(fmt.Sprintf("title exceeds %d characters", MaxTitleLen))
	}
	if len(t.Description) > MaxDescriptionLen {
		return service.Task{}, apierr.NewValidation(fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen))
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var created service.Task
	if err := c.gw.Send(ctx, http.MethodPost, "/tasks/", t, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// UpdateTask merges only the non-nil patch fields.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	if id == "" {
		return service.Task{}, apierr.NewValidation("task id is required")
	}
	if patch.Empty() {
		return service.Task{}, apierr.NewValidation("at least one field must be provided")
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return service.Task{}, apierr.NewValidation("title is required")
		}
		if len(trimmed) > MaxTitleLen {
			return service.Task{}, apierr.NewValidation(fmt.Sprintf("title exceeds %d characters", MaxTitleLen))
		}
		patch.Title = &trimmed
	}
	if patch.Description != nil && len(*patch.Description) > MaxDescriptionLen {
		return service.Task{}, apierr.NewValidation(fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen))
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var updated service.Task
	if err := c.gw.Send(ctx, http.MethodPut, "/tasks/"+id, patch, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task. Not-found surfaces as such; callers decide
// whether an already-gone task matters.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return apierr.NewValidation("task id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return c.gw.Send(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// SendChat sends one conversation turn. A zero conversationID is
// omitted from the request so the server opens a fresh conversation.
func (c *Client) SendChat(ctx context.Context, conversationID int64, message string) (service.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return service.ChatReply{}, apierr.NewValidation("message is required")
	}
	ctx, cancel := context.WithTimeout(ctx, ChatTimeout)
	defer cancel()

	req := chatRequest{Message: message}
	if conversationID != 0 {
		req.ConversationID = &conversationID
	}

	var reply service.ChatReply
	if err := c.gw.Send(ctx, http.MethodPost, "/api/chat", req, &reply); err != nil {
		return service.ChatReply{}, err
	}
	return reply, nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type chatRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return apierr.NewValidation("email is required")
	}
	if password == "" {
		return apierr.NewValidation("password is required")
	}
	return nil
}
