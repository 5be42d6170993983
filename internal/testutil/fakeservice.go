// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskchat/internal/apierr"
	"taskchat/internal/service"
)

// FakeService is an in-memory implementation of service.Service for
// testing.
type FakeService struct {
	mu     sync.Mutex
	users  map[string]string // email -> password
	tasks  []service.Task
	nextID int

	// Chat scripting: replies are consumed in order. When the script
	// runs out, a generic reply bound to ConvID is returned.
	ChatReplies []service.ChatReply
	ConvID      int64

	// SentConversationIDs records the conversation id carried by each
	// SendChat call, in order.
	SentConversationIDs []int64

	// Error injection for testing
	SignUpErr     error
	SignInErr     error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	SendChatErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]string),
		ConvID: 1,
	}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(id, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        id,
		UserID:    "user-1",
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the current task state.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// SignUp implements service.Service.
func (f *FakeService) SignUp(ctx context.Context, email, password string) (service.User, error) {
	if f.SignUpErr != nil {
		return service.User{}, f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.TrimSpace(email)
	if _, exists := f.users[email]; exists {
		return service.User{}, apierr.NewRejected(409, "Email already exists")
	}
	f.users[email] = password
	return service.User{ID: "user-1", Email: email, CreatedAt: time.Now()}, nil
}

// SignIn implements service.Service.
func (f *FakeService) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	if f.SignInErr != nil {
		return service.Session{}, f.SignInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.TrimSpace(email)
	if pw, ok := f.users[email]; !ok || pw != password {
		return service.Session{}, apierr.NewSessionExpired()
	}
	return service.Session{
		AccessToken: "fake-token",
		TokenType:   "bearer",
		User:        service.User{ID: "user-1", Email: email},
	}, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if strings.TrimSpace(t.Title) == "" {
		return service.Task{}, apierr.NewValidation("title is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		UserID:      "user-1",
		Title:       strings.TrimSpace(t.Title),
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.Completed != nil {
			f.tasks[i].Completed = *patch.Completed
		}
		f.tasks[i].UpdatedAt = time.Now()
		return f.tasks[i], nil
	}
	return service.Task{}, apierr.NewNotFound("task")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apierr.NewNotFound("task")
}

// SendChat implements service.Service.
func (f *FakeService) SendChat(ctx context.Context, conversationID int64, message string) (service.ChatReply, error) {
	if f.SendChatErr != nil {
		return service.ChatReply{}, f.SendChatErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SentConversationIDs = append(f.SentConversationIDs, conversationID)
	if len(f.ChatReplies) > 0 {
		reply := f.ChatReplies[0]
		f.ChatReplies = f.ChatReplies[1:]
		return reply, nil
	}
	return service.ChatReply{
		ConversationID: f.ConvID,
		Response:       "ok: " + message,
	}, nil
}
