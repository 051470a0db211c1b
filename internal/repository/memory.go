package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-services/internal/models"
)

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrDuplicateEmail
	}
	s.byEmail[u.Email] = *u
	return nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// MemoryTodoStore keeps todos in process memory.
type MemoryTodoStore struct {
	mu    sync.RWMutex
	todos map[string]models.Todo
}

func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{todos: make(map[string]models.Todo)}
}

func (s *MemoryTodoStore) Create(_ context.Context, t *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos[t.ID] = *t
	return nil
}

func (s *MemoryTodoStore) List(_ context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.OwnerID == ownerID && filter.Match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryTodoStore) Get(_ context.Context, ownerID, id string) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryTodoStore) Update(_ context.Context, ownerID, id string, patch models.TodoPatch, at time.Time) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = at
	s.todos[id] = t
	return &t, nil
}

func (s *MemoryTodoStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}
