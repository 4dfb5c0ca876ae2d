package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Nullable marshals as an explicit JSON null when Value is nil. Use a nil
// *Nullable to leave the field out of the request entirely.
type Nullable[T any] struct {
	Value *T
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NullValue produces an explicit null, clearing the field server-side.
func NullValue[T any]() *Nullable[T] {
	return &Nullable[T]{}
}

// Value wraps v for a Nullable field.
func Value[T any](v T) *Nullable[T] {
	return &Nullable[T]{Value: &v}
}

type ListTasksOptions struct {
	ProjectID  string
	Status     string
	Priority   string
	AssigneeID string
	Search     string
	SortBy     string
	SortOrder  string
	Page       Page
}

func (c *Client) ListTasks(ctx context.Context, opts ListTasksOptions) ([]Task, *Meta, error) {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("projectId", opts.ProjectID)
	set("status", opts.Status)
	set("priority", opts.Priority)
	set("assigneeId", opts.AssigneeID)
	set("search", opts.Search)
	set("sortBy", opts.SortBy)
	set("sortOrder", opts.SortOrder)
	opts.Page.apply(q)

	var tasks []Task
	meta, err := c.do(ctx, http.MethodGet, "/api/tasks", q, nil, &tasks)
	if err != nil {
		return nil, nil, err
	}
	return tasks, meta, nil
}

// GetTask returns a task with its tags and comments.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ProjectID   string     `json:"projectId"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	TagIDs      []string   `json:"tagIds,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskRequest distinguishes omitted fields (nil) from explicit
// clears (NullValue) on dueDate and assigneeId.
type UpdateTaskRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Priority    *string              `json:"priority,omitempty"`
	Status      *string              `json:"status,omitempty"`
	DueDate     *Nullable[time.Time] `json:"dueDate,omitempty"`
	AssigneeID  *Nullable[string]    `json:"assigneeId,omitempty"`
	Order       *int                 `json:"order,omitempty"`
	TagIDs      []string             `json:"tagIds,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil, nil)
	return err
}

// TaskOrder is one entry of a reorder batch.
type TaskOrder struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Status string `json:"status,omitempty"`
}

// ReorderTasks atomically repositions tasks within a project. The whole
// batch fails if any task does not belong to the project.
func (c *Client) ReorderTasks(ctx context.Context, projectID string, orders []TaskOrder) error {
	body := map[string]interface{}{"projectId": projectID, "tasks": orders}
	_, err := c.do(ctx, http.MethodPatch, "/api/tasks/reorder", nil, body, nil)
	return err
}

func (c *Client) AddComment(ctx context.Context, taskID, content string) (*Comment, error) {
	body := map[string]string{"content": content}
	var cm Comment
	if _, err := c.do(ctx, http.MethodPost, "/api/tasks/"+taskID+"/comments", nil, body, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, taskID, commentID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+taskID+"/comments/"+commentID, nil, nil, nil)
	return err
}
