// Package taskapi implements the service.Service interface against the task
// service's REST endpoints, hiding the wire schema behind the presentation
// schema.
package taskapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdo/internal/api"
	"taskdo/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	tasksPath = "/api/tasks"
)

// Client implements service.Service over the transport layer.
type Client struct {
	api *api.Client
}

// New creates a task resource client.
func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// ListTasks returns all tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var wire []wireTask
	err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: tasksPath}, &wire)
	if err != nil {
		return nil, err
	}

	tasks := make([]service.Task, len(wire))
	for i, w := range wire {
		tasks[i] = toTask(w)
	}
	return tasks, nil
}

// GetTask returns a task by id. A 404 from the service is converted to
// (nil, nil); any other failure propagates.
func (c *Client) GetTask(ctx context.Context, id string) (*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var wire wireTask
	err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: taskPath(id)}, &wire)
	if err != nil {
		if api.HasStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}

	task := toTask(wire)
	return &task, nil
}

// CreateTask creates a task. Only fields present in the input are sent;
// empty optionals are never force-included.
func (c *Client) CreateTask(ctx context.Context, in service.CreateTaskInput) (service.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, fmt.Errorf("title required")
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var wire wireTask
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   tasksPath,
		Body:   toWireCreate(in),
	}, &wire)
	if err != nil {
		return service.Task{}, err
	}
	return toTask(wire), nil
}

// UpdateTask applies a partial update. A field is included in the wire body
// if and only if it is set in the input; an empty input sends no task fields.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.UpdateTaskInput) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var wire wireTask
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   taskPath(id),
		Body:   toWireUpdate(in),
	}, &wire)
	if err != nil {
		return service.Task{}, err
	}
	return toTask(wire), nil
}

// DeleteTask deletes a task. Succeeds with no payload.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return c.api.Do(ctx, api.Request{Method: http.MethodDelete, Path: taskPath(id)}, nil)
}

// ToggleComplete flips a task's completion state through the dedicated
// toggle sub-resource. The resulting state and timestamps come from the
// service; nothing is computed locally.
func (c *Client) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var wire wireTask
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   taskPath(id) + "/complete",
	}, &wire)
	if err != nil {
		return service.Task{}, err
	}
	return toTask(wire), nil
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}
