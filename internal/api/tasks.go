package api

import (
	"context"
	"fmt"
	"net/http"

	"taskmaster/internal/model"
)

// TaskInput is the create payload. Optional fields are pointers and are
// omitted from the request when unset.
type TaskInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	ListID      *int64  `json:"listId,omitempty"`
	AuthorID    int64   `json:"authorId"`
}

// TaskPatch is a partial update: only set fields reach the backend, so a
// patch never clobbers fields it did not mean to touch.
type TaskPatch struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	ListID      *int64  `json:"listId,omitempty"`
}

func (c *Client) GetTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, call{
		op:       "tasks.get",
		fallback: "Error fetching tasks",
		method:   http.MethodGet,
		path:     "/task/get",
		into:     &tasks,
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, call{
		op:       "tasks.create",
		fallback: "Error creating task",
		method:   http.MethodPost,
		path:     "/task/create",
		body:     input,
		into:     &task,
	})
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, patch TaskPatch) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, call{
		op:       "tasks.update",
		fallback: "Error updating task",
		method:   http.MethodPatch,
		path:     "/task/update",
		body:     patch,
		into:     &task,
	})
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, authorID, taskID int64) error {
	return c.do(ctx, call{
		op:       "tasks.delete",
		fallback: "Error deleting task",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/task/delete/%d/%d", authorID, taskID),
	})
}

func (c *Client) ToggleTaskArchived(ctx context.Context, authorID, taskID int64) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, call{
		op:       "tasks.toggleArchived",
		fallback: "Error archiving task",
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/task/toggleArchived/%d/%d", authorID, taskID),
		into:     &task,
	})
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) ToggleTaskStatus(ctx context.Context, taskID int64) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, call{
		op:       "tasks.toggleStatus",
		fallback: "Error updating task status",
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/task/%d/toggle-status", taskID),
		into:     &task,
	})
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}
