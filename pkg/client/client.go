// Package client is a Go client for the user and todo services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"todo-services/internal/models"
)

// APIError is a failure envelope returned by either service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: %d %s", e.Status, e.Message)
}

// Client talks to both services. Todo calls take the token explicitly so one
// Client can act for several users.
type Client struct {
	userURL    string
	todoURL    string
	httpClient *http.Client
}

// New returns a Client. A nil hc uses http.DefaultClient.
func New(userURL, todoURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		userURL:    strings.TrimRight(userURL, "/"),
		todoURL:    strings.TrimRight(todoURL, "/"),
		httpClient: hc,
	}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) (*models.UserPublic, error) {
	var out models.UserPublic
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.userURL+"/api/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns the user and a token for the todo service.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.userURL+"/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTodo creates a todo; completed may be nil.
func (c *Client) CreateTodo(ctx context.Context, token, content string, completed *bool) (*models.Todo, error) {
	body := map[string]any{"content": content}
	if completed != nil {
		body["completed"] = *completed
	}
	var out models.Todo
	if err := c.do(ctx, http.MethodPost, c.todoURL+"/api/todos", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTodos lists the caller's todos; an empty status means all.
func (c *Client) ListTodos(ctx context.Context, token string, status models.StatusFilter) ([]models.Todo, error) {
	u := c.todoURL + "/api/todos"
	if status != "" {
		u += "?status=" + url.QueryEscape(string(status))
	}
	var out []models.Todo
	if err := c.do(ctx, http.MethodGet, u, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTodo(ctx context.Context, token, id string) (*models.Todo, error) {
	var out models.Todo
	if err := c.do(ctx, http.MethodGet, c.todoPath(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, token, id string, patch models.TodoPatch) (*models.Todo, error) {
	var out models.Todo
	if err := c.do(ctx, http.MethodPut, c.todoPath(id), token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTodo(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, c.todoPath(id), token, nil, nil)
}

func (c *Client) todoPath(id string) string {
	return c.todoURL + "/api/todos/" + url.PathEscape(id)
}

// NewRequest builds a JSON request with an optional Bearer token.
func NewRequest(ctx context.Context, method, rawURL, token string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, rawURL, token string, body, out any) error {
	req, err := NewRequest(ctx, method, rawURL, token, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := http.StatusText(resp.StatusCode)
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode data: %w", err)
		}
	}
	return nil
}
