package service

import "context"

// Service defines the task operations against the remote service.
// Commands never touch the transport or wire schema directly.
type Service interface {
	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a task by id, or (nil, nil) when the service reports
	// it does not exist. This is the one place a transport error is
	// converted to an absence value; every other failure propagates.
	GetTask(ctx context.Context, id string) (*Task, error)

	// CreateTask creates a task and returns it as stored by the service.
	CreateTask(ctx context.Context, in CreateTaskInput) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error

	// ToggleComplete flips a task's completion state. The service is the
	// sole authority on the resulting state and timestamps.
	ToggleComplete(ctx context.Context, id string) (Task, error)
}
