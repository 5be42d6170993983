// Package tasksync owns the client-side task collection.
//
// The server is the source of truth; this collection is a cache kept
// current by full refreshes and by applying the results of confirmed
// mutations. Application order follows response arrival order. The
// Synchronizer is confined to a single goroutine by its callers, so
// there is no locking discipline here.
package tasksync

import (
	"context"
	"fmt"

	"taskchat/internal/service"
)

// Synchronizer holds the ordered task collection shown to the user.
// ID uniqueness holds after every operation.
type Synchronizer struct {
	svc   service.Service
	tasks []service.Task
}

// New creates an empty Synchronizer on the given service.
func New(svc service.Service) *Synchronizer {
	return &Synchronizer{svc: svc}
}

// Refresh replaces the entire collection with the server's list.
// Full replacement, not merge: no stale entry survives a refresh.
// On failure the collection is left unchanged.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// Tasks returns a copy of the collection in display order.
func (s *Synchronizer) Tasks() []service.Task {
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks held.
func (s *Synchronizer) Len() int { return len(s.tasks) }

// Get returns the task with the given id.
func (s *Synchronizer) Get(id string) (service.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// ApplyCreated inserts a confirmed new task at the front
// (newest-first display). An id already present is replaced in place
// instead, preserving uniqueness.
func (s *Synchronizer) ApplyCreated(t service.Task) {
	if s.replace(t) {
		return
	}
	s.tasks = append([]service.Task{t}, s.tasks...)
}

// ApplyUpdated replaces the entry with a matching id in place.
// Ignored when no entry matches.
func (s *Synchronizer) ApplyUpdated(t service.Task) {
	s.replace(t)
}

// ApplyRemoved removes the entry with the given id. Ignored when
// absent, which tolerates double-deletes.
func (s *Synchronizer) ApplyRemoved(id string) {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// ToggleCompleted flips a task's completion optimistically: the local
// copy changes first, the confirming update follows, and on failure
// the prior value is restored before the error is returned.
func (s *Synchronizer) ToggleCompleted(ctx context.Context, id string) (service.Task, error) {
	prior, ok := s.Get(id)
	if !ok {
		return service.Task{}, fmt.Errorf("task not in local collection: %s", id)
	}

	flipped := prior
	flipped.Completed = !prior.Completed
	s.ApplyUpdated(flipped)

	completed := flipped.Completed
	updated, err := s.svc.UpdateTask(ctx, id, service.TaskPatch{Completed: &completed})
	if err != nil {
		s.ApplyUpdated(prior)
		return service.Task{}, err
	}

	s.ApplyUpdated(updated)
	return updated, nil
}

func (s *Synchronizer) replace(t service.Task) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return true
		}
	}
	return false
}
