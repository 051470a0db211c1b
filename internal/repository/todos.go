package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-services/internal/models"
	"todo-services/pkg/logger"
)

const todoColumns = `id, content, completed, owner_id, created_at, updated_at`

// TodoRepository stores todos in the todos table. Every statement is scoped by owner_id.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a new todo.
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Content, t.Completed, t.OwnerID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the owner's todos matching filter, newest first. Ties on
// created_at are broken by id so the order is stable.
func (r *TodoRepository) List(ctx context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1`
	args := []any{ownerID}
	switch filter {
	case models.StatusCompleted:
		query += ` AND completed = $2`
		args = append(args, true)
	case models.StatusPending:
		query += ` AND completed = $2`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Content, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, fmt.Errorf("db error: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todos, nil
}

// Get returns one todo if it exists and belongs to ownerID.
func (r *TodoRepository) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanTodo(ctx, row, "Get")
}

// Update applies the non-nil fields of patch in one statement and returns the new row.
func (r *TodoRepository) Update(ctx context.Context, ownerID, id string, patch models.TodoPatch, at time.Time) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE todos SET content = COALESCE($1, content), completed = COALESCE($2, completed), updated_at = $3
		 WHERE id = $4 AND owner_id = $5
		 RETURNING `+todoColumns,
		nullString(patch.Content), nullBool(patch.Completed), at, id, ownerID)
	return scanTodo(ctx, row, "Update")
}

// Delete removes the todo if it belongs to ownerID.
func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTodo(ctx context.Context, row *sql.Row, op string) (*models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.Content, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error(ctx, "Repository "+op+" failed", "error", err)
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
