package controller

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"todo-services/internal/apperr"
	"todo-services/internal/middleware"
	"todo-services/internal/models"
)

const maxContentLength = 500

type TodoService interface {
	Create(ctx context.Context, ownerID, content string, completed bool) (*models.Todo, error)
	List(ctx context.Context, ownerID string, filter models.StatusFilter) ([]models.Todo, error)
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type TodoController struct {
	todos TodoService
}

func NewTodoController(todos TodoService) *TodoController {
	return &TodoController{todos: todos}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("Todo content cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return apperr.Validation("Todo content cannot exceed 500 characters")
	}
	return nil
}

// owner returns the verified caller or writes 401. Routes are always mounted
// behind AuthMiddleware, so a miss means a wiring bug.
func owner(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Access token required")
		return "", false
	}
	return id.OwnerID, true
}

// CreateTodo: POST /api/todos
func (t *TodoController) CreateTodo(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var body struct {
		Content   string `json:"content"`
		Completed *bool  `json:"completed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateContent(body.Content); err != nil {
		respondErr(c, err)
		return
	}
	completed := body.Completed != nil && *body.Completed
	todo, err := t.todos.Create(c.Request.Context(), ownerID, body.Content, completed)
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusCreated, "Todo created successfully", todo)
}

// GetTodos: GET /api/todos?status=all|completed|pending
func (t *TodoController) GetTodos(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	todos, err := t.todos.List(c.Request.Context(), ownerID, models.ParseStatusFilter(c.Query("status")))
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusOK, "", todos)
}

// GetTodo: GET /api/todos/:id
func (t *TodoController) GetTodo(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	todo, err := t.todos.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusOK, "", todo)
}

// UpdateTodo: PUT /api/todos/:id
func (t *TodoController) UpdateTodo(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Empty() {
		fail(c, http.StatusBadRequest, "No fields to update")
		return
	}
	if patch.Content != nil {
		if err := validateContent(*patch.Content); err != nil {
			respondErr(c, err)
			return
		}
	}
	todo, err := t.todos.Update(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	success(c, http.StatusOK, "Todo updated successfully", todo)
}

// DeleteTodo: DELETE /api/todos/:id
func (t *TodoController) DeleteTodo(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := t.todos.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
