// Package todos implements ownership-scoped todo CRUD on top of a Store, with
// an optional list cache and event publisher.
package todos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"todo-services/internal/apperr"
	"todo-services/internal/models"
	"todo-services/internal/repository"
	"todo-services/pkg/logger"
)

// ErrTodoNotFound covers both a missing todo and one owned by someone else.
var ErrTodoNotFound = apperr.NotFound("Todo not found")

type Store interface {
	Create(ctx context.Context, t *models.Todo) error
	List(ctx context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error)
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, patch models.TodoPatch, at time.Time) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Cache stores list results under a per-owner generation. InvalidateOwner
// must move the owner to a new generation.
type Cache interface {
	Generation(ctx context.Context, ownerID string) (int64, error)
	GetList(ctx context.Context, ownerID string, gen int64, filter models.StatusFilter) ([]models.Todo, bool)
	SetList(ctx context.Context, ownerID string, gen int64, filter models.StatusFilter, todos []models.Todo)
	InvalidateOwner(ctx context.Context, ownerID string)
}

type Publisher interface {
	Publish(ctx context.Context, ev *models.TodoEvent) error
}

type Manager struct {
	store     Store
	cache     Cache
	publisher Publisher
	now       func() time.Time
	lists     singleflight.Group
}

type Option func(*Manager)

func WithCache(c Cache) Option { return func(m *Manager) { m.cache = c } }

func WithPublisher(p Publisher) Option { return func(m *Manager) { m.publisher = p } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create stores a new todo owned by ownerID. Content must already be validated.
func (m *Manager) Create(ctx context.Context, ownerID, content string, completed bool) (*models.Todo, error) {
	now := m.now().UTC()
	t := &models.Todo{
		ID:        uuid.New().String(),
		Content:   content,
		Completed: completed,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	m.afterWrite(ctx, models.EventTodoCreated, t.ID, ownerID, &t.Completed)
	return t, nil
}

// List returns ownerID's todos matching filter, newest first. Never nil.
//
// Without a cache every call reads the store. With one, concurrent misses for
// the same owner, filter and generation share a single load. A write bumps
// the generation before it returns, so a List that starts after the write
// never joins or reads a load that began before it.
func (m *Manager) List(ctx context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error) {
	if m.cache == nil {
		return m.loadList(ctx, ownerID, filter)
	}
	gen, err := m.cache.Generation(ctx, ownerID)
	if err != nil {
		logger.Debug(ctx, "Cache generation unavailable", "error", err)
		return m.loadList(ctx, ownerID, filter)
	}
	if todos, ok := m.cache.GetList(ctx, ownerID, gen, filter); ok {
		return todos, nil
	}
	key := fmt.Sprintf("%s:%d:%s", ownerID, gen, filter)
	v, err, _ := m.lists.Do(key, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the others sharing the call.
		loadCtx := context.WithoutCancel(ctx)
		todos, err := m.loadList(loadCtx, ownerID, filter)
		if err != nil {
			return nil, err
		}
		m.cache.SetList(loadCtx, ownerID, gen, filter, todos)
		return todos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Todo), nil
}

func (m *Manager) loadList(ctx context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error) {
	todos, err := m.store.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if todos == nil {
		todos = make([]models.Todo, 0)
	}
	return todos, nil
}

func (m *Manager) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	t, err := m.store.Get(ctx, ownerID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

// Update applies patch to a todo owned by ownerID and bumps updated_at.
func (m *Manager) Update(ctx context.Context, ownerID, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	t, err := m.store.Update(ctx, ownerID, id, patch, m.now().UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	m.afterWrite(ctx, models.EventTodoUpdated, t.ID, ownerID, &t.Completed)
	return t, nil
}

func (m *Manager) Delete(ctx context.Context, ownerID, id string) error {
	if err := m.store.Delete(ctx, ownerID, id); err != nil {
		return storeErr(err)
	}
	m.afterWrite(ctx, models.EventTodoDeleted, id, ownerID, nil)
	return nil
}

// afterWrite moves the owner to a new cache generation, then publishes the
// event. Neither failure is reported to the caller: the write already happened.
func (m *Manager) afterWrite(ctx context.Context, typ, todoID, ownerID string, completed *bool) {
	if m.cache != nil {
		m.cache.InvalidateOwner(ctx, ownerID)
	}
	if m.publisher == nil {
		return
	}
	ev := &models.TodoEvent{
		Type:       typ,
		TodoID:     todoID,
		OwnerID:    ownerID,
		Completed:  completed,
		OccurredAt: m.now().UTC(),
	}
	if err := m.publisher.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Todo event publish failed", "error", err, "type", typ, "todo_id", todoID)
	}
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTodoNotFound
	}
	return apperr.Internal(err)
}
