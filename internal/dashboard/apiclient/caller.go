package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"todo_app/internal/models"
)

// Caller issues authenticated calls for one user. Build one per request with Client.Bind.
type Caller struct {
	client *Client
	creds  Credentials
	nav    Navigator
}

func (c *Caller) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Caller) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Caller) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Caller) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the one hook around every verb: no token or a 401 redirects to login
// and the call is not retried.
func (c *Caller) do(ctx context.Context, method, path string, in, out any) error {
	token := c.creds.Token()
	if token == "" {
		c.nav.RedirectToLogin()
		return ErrNoToken
	}

	resp, err := c.client.send(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.nav.RedirectToLogin()
		return ErrUnauthorized
	}
	return decode(resp, out)
}

// todoBody is what the API accepts on POST and PUT.
type todoBody struct {
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

func (c *Caller) ListTodos(ctx context.Context) ([]models.TodoItem, error) {
	items := []models.TodoItem{}
	if err := c.Get(ctx, "/todo", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Caller) GetTodo(ctx context.Context, id uint) (models.TodoItem, error) {
	var item models.TodoItem
	err := c.Get(ctx, fmt.Sprintf("/todo/%d", id), &item)
	return item, err
}

func (c *Caller) CreateTodo(ctx context.Context, title string, isComplete bool) (models.TodoItem, error) {
	var item models.TodoItem
	err := c.Post(ctx, "/todo", todoBody{Title: title, IsComplete: isComplete}, &item)
	return item, err
}

// UpdateTodo overwrites title and completion of item.ID.
func (c *Caller) UpdateTodo(ctx context.Context, item models.TodoItem) error {
	return c.Put(ctx, fmt.Sprintf("/todo/%d", item.ID), todoBody{Title: item.Title, IsComplete: item.IsComplete}, nil)
}

func (c *Caller) DeleteTodo(ctx context.Context, id uint) error {
	return c.Delete(ctx, fmt.Sprintf("/todo/%d", id))
}
