package models

import (
	"strings"
	"time"
)

// Todo represents a todo item. OwnerID is the user who created it and never changes.
type Todo struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoPatch is a partial update. A nil field keeps the stored value.
type TodoPatch struct {
	Content   *string `json:"content,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Content == nil && p.Completed == nil
}

// StatusFilter selects todos by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// ParseStatusFilter is case-insensitive; empty or unrecognized values select all.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCompleted:
		return StatusCompleted
	case StatusPending:
		return StatusPending
	default:
		return StatusAll
	}
}

// Match reports whether t passes the filter.
func (f StatusFilter) Match(t Todo) bool {
	switch f {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	default:
		return true
	}
}

// Todo event types published after a successful mutation.
const (
	EventTodoCreated = "todo.created"
	EventTodoUpdated = "todo.updated"
	EventTodoDeleted = "todo.deleted"
)

// TodoEvent is the message payload for Kafka.
type TodoEvent struct {
	Type       string    `json:"type"`
	TodoID     string    `json:"todo_id"`
	OwnerID    string    `json:"owner_id"`
	Completed  *bool     `json:"completed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
