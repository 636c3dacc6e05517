package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/grouptodo/gtd/todo"
)

// TodosByDate fetches the caller's todos scheduled on a date, across all
// groups. The response carries per-user completion flags, so fetching
// today's date is how a caller learns its own completion overrides.
func (c *Client) TodosByDate(ctx context.Context, date todo.Date) ([]todo.Todo, error) {
	query := url.Values{"date": {string(date)}}
	var todos []todo.Todo
	if err := c.get(ctx, "/api/v1/todos", query, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GroupTodos fetches all todos belonging to a group.
func (c *Client) GroupTodos(ctx context.Context, groupID int64) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.get(ctx, fmt.Sprintf("/api/v1/todos/groups/%d", groupID), nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// TodoChange describes a group todo create or update.
type TodoChange struct {
	Content   string    `json:"content"`
	Type      todo.Type `json:"todoType"`
	StartDate todo.Date `json:"startDate"`
	DueDate   todo.Date `json:"dueDate"`
	Assigned  *int64    `json:"assigned,omitempty"`
}

// CreateGroupTodo adds a todo to a group and returns it.
func (c *Client) CreateGroupTodo(ctx context.Context, groupID int64, change TodoChange) (todo.Todo, error) {
	var created todo.Todo
	if err := c.post(ctx, fmt.Sprintf("/api/v1/todos/groups/%d", groupID), change, &created); err != nil {
		return todo.Todo{}, err
	}
	return created, nil
}

// UpdateGroupTodo replaces a group todo's details. The todo is addressed
// through its group, so both IDs are required.
func (c *Client) UpdateGroupTodo(ctx context.Context, todoID, groupID int64, change TodoChange) (todo.Todo, error) {
	var updated todo.Todo
	path := fmt.Sprintf("/api/v1/todos/%d/groups/%d", todoID, groupID)
	if err := c.patch(ctx, path, change, &updated); err != nil {
		return todo.Todo{}, err
	}
	return updated, nil
}

// DeleteGroupTodo removes a todo from a group.
func (c *Client) DeleteGroupTodo(ctx context.Context, todoID, groupID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/todos/%d/groups/%d", todoID, groupID), nil)
}

// DeleteTodo removes the caller's copy of a todo. The ID is the per-user
// todo ID from TodosByDate, not the group todo ID.
func (c *Client) DeleteTodo(ctx context.Context, userTodoID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/todos/%d", userTodoID), nil)
}

// CompleteTodo marks the caller's copy of a todo completed or not. The ID is
// the per-user todo ID from TodosByDate, not the group todo ID.
func (c *Client) CompleteTodo(ctx context.Context, userTodoID int64, completed bool) error {
	payload := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}
	return c.patch(ctx, fmt.Sprintf("/api/v1/todos/%d/complete", userTodoID), payload, nil)
}

// RecommendedTodos fetches todos the backend suggests the caller adopt.
func (c *Client) RecommendedTodos(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.get(ctx, "/api/v1/todos/me/recommend", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// AddRecommendedTodo copies a recommended todo onto the caller's list for a
// date.
func (c *Client) AddRecommendedTodo(ctx context.Context, todoID int64, date todo.Date) (todo.Todo, error) {
	payload := struct {
		Date todo.Date `json:"date"`
	}{Date: date}
	var added todo.Todo
	if err := c.post(ctx, fmt.Sprintf("/api/v1/todos/%d", todoID), payload, &added); err != nil {
		return todo.Todo{}, err
	}
	return added, nil
}
