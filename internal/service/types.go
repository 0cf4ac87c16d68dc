// Package service defines the backend-agnostic task operations and the
// presentation schema consumed by commands and output.
package service

// Priority is a task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a task in the presentation schema. Optional fields are pointers so
// absence survives a round trip through the wire schema.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"dueDate,omitempty"`
	UserID      string   `json:"userId"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// CreateTaskInput describes a task to create. Title is required and must be
// non-empty after trimming. An empty Priority means unspecified; the service
// defaults it to medium.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    Priority
	DueDate     *string
}

// UpdateTaskInput is a partial update. Only non-nil fields are sent, so the
// service leaves omitted fields untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *string
	Completed   *bool
}
