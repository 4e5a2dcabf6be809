// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package taskplanner

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned for unknown task ids.
var ErrTaskNotFound = errors.New("task not found")

// Store keeps tasks in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]Task
	now   func() time.Time
}

// NewStore returns an empty [Store].
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]Task),
		now:   time.Now,
	}
}

// Create stores t under a new id.
func (s *Store) Create(t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	t = t.clone()
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t.clone()
}

// Get returns the task with id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t.clone(), nil
}

// List returns every task in creation order.
func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id].clone())
	}
	return tasks
}

// Update applies f to the task with id and stores the result.
func (s *Store) Update(id string, f func(*Task)) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	t = t.clone()
	f(&t)
	t.ID = id
	s.tasks[id] = t
	return t.clone(), nil
}

// Delete removes the task with id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	s.order = slices.DeleteFunc(s.order, func(other string) bool {
		return other == id
	})
	return nil
}

// Comment appends a comment to the task with id.
func (s *Store) Comment(id, author, text string) (Task, error) {
	now := s.now()
	return s.Update(id, func(t *Task) {
		t.Comments = append(t.Comments, Comment{
			Author:    author,
			Text:      text,
			CreatedAt: now,
		})
	})
}

// Like records that user likes the task with id. Liking twice has no
// further effect.
func (s *Store) Like(id, user string) (Task, error) {
	return s.Update(id, func(t *Task) {
		if !slices.Contains(t.LikedBy, user) {
			t.LikedBy = append(t.LikedBy, user)
		}
	})
}

// Share grants user access to the task with id.
func (s *Store) Share(id, user string) (Task, error) {
	return s.Update(id, func(t *Task) {
		if !slices.Contains(t.SharedWith, user) {
			t.SharedWith = append(t.SharedWith, user)
		}
	})
}
