package taskapi

import "taskdo/internal/service"

// wireTask is the task schema as the service sends and accepts it.
type wireTask struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Completed   bool             `json:"completed"`
	Priority    service.Priority `json:"priority"`
	DueDate     *string          `json:"due_date,omitempty"`
	UserID      string           `json:"user_id"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// wireCreateTask is the request body for task creation. Optional fields are
// omitted when unset so the service applies its own defaults.
type wireCreateTask struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Priority    service.Priority `json:"priority,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
}

// wireUpdateTask is the request body for a partial update. Every field is a
// pointer: nil means "not specified" and is left out of the body, so the
// service never confuses an omitted field with an explicit zero value.
type wireUpdateTask struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Priority    *service.Priority `json:"priority,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
	Completed   *bool             `json:"completed,omitempty"`
}

// Field mapping between the two schemas is a pure rename:
// dueDate<->due_date, userId<->user_id, createdAt<->created_at,
// updatedAt<->updated_at; the rest map to themselves.

func toTask(w wireTask) service.Task {
	return service.Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Completed:   w.Completed,
		Priority:    w.Priority,
		DueDate:     w.DueDate,
		UserID:      w.UserID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWire(t service.Task) wireTask {
	return wireTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toWireCreate(in service.CreateTaskInput) wireCreateTask {
	return wireCreateTask{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
}

func toWireUpdate(in service.UpdateTaskInput) wireUpdateTask {
	return wireUpdateTask{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Completed:   in.Completed,
	}
}
