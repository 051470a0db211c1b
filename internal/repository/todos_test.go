package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-services/internal/models"
)

var todoCols = []string{"id", "content", "completed", "owner_id", "created_at", "updated_at"}

func TestTodoRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+todos`).
		WithArgs("t-1", "buy milk", false, "owner-a", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Todo{ID: "t-1", Content: "buy milk", OwnerID: "owner-a", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_List_Filters(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		filter models.StatusFilter
		query  string
		args   []driver.Value
	}{
		{models.StatusAll, `WHERE owner_id = \$1 ORDER BY created_at DESC, id DESC$`, []driver.Value{"owner-a"}},
		{models.StatusCompleted, `WHERE owner_id = \$1 AND completed = \$2 ORDER BY created_at DESC, id DESC$`, []driver.Value{"owner-a", true}},
		{models.StatusPending, `WHERE owner_id = \$1 AND completed = \$2 ORDER BY created_at DESC, id DESC$`, []driver.Value{"owner-a", false}},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTodoRepository(db)

			rows := sqlmock.NewRows(todoCols).
				AddRow("t-2", "second", true, "owner-a", now.Add(time.Minute), now.Add(time.Minute)).
				AddRow("t-1", "first", true, "owner-a", now, now)
			mock.ExpectQuery(tc.query).WithArgs(tc.args...).WillReturnRows(rows)

			todos, err := repo.List(context.Background(), "owner-a", tc.filter)
			require.NoError(t, err)
			require.Len(t, todos, 2)
			assert.Equal(t, "t-2", todos[0].ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTodoRepository_List_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(`FROM todos`).WithArgs("owner-a").WillReturnRows(sqlmock.NewRows(todoCols))

	todos, err := repo.List(context.Background(), "owner-a", models.StatusAll)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestTodoRepository_Get_NotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(`WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("t-1", "owner-b").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "owner-b", "t-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoRepository_Update_Partial(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := created.Add(time.Hour)
	done := true

	mock.ExpectQuery(`(?s)^UPDATE\s+todos\s+SET\s+content\s*=\s*COALESCE\(\$1,\s*content\),\s*completed\s*=\s*COALESCE\(\$2,\s*completed\)`).
		WithArgs(nil, true, at, "t-1", "owner-a").
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow("t-1", "keep me", true, "owner-a", created, at))

	got, err := repo.Update(context.Background(), "owner-a", "t-1", models.TodoPatch{Completed: &done}, at)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Content)
	assert.True(t, got.Completed)
	assert.True(t, at.Equal(got.UpdatedAt))
}

func TestTodoRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)
	content := "x"

	mock.ExpectQuery(`UPDATE todos`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "owner-a", "missing", models.TodoPatch{Content: &content}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectExec(`DELETE FROM todos WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("t-1", "owner-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM todos`).
		WithArgs("t-1", "owner-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "owner-a", "t-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "owner-a", "t-1"), ErrNotFound)
}

func TestTodoRepository_Delete_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectExec(`DELETE FROM todos`).WillReturnError(errors.New("conn reset"))

	err := repo.Delete(context.Background(), "owner-a", "t-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
