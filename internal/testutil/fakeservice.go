// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdo/internal/service"
)

// FakeUserID is the owner recorded on tasks created by the fake.
const FakeUserID = "user-1"

var fakeEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	seq   int

	// Error injection for testing
	ListTasksErr      error
	GetTaskErr        error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	ToggleCompleteErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// stamp returns a strictly increasing RFC 3339 timestamp. Callers must hold
// the write lock.
func (f *FakeService) stamp() string {
	f.seq++
	return fakeEpoch.Add(time.Duration(f.seq) * time.Second).Format(time.RFC3339)
}

// AddTask appends a task with the given title and returns its id.
func (f *FakeService) AddTask(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.stamp()
	t := service.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  service.PriorityMedium,
		UserID:    FakeUserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// GetTask implements service.Service. Absence is (nil, nil), matching the
// interface contract.
func (f *FakeService) GetTask(ctx context.Context, id string) (*service.Task, error) {
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			task := t
			return &task, nil
		}
	}
	return nil, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.CreateTaskInput) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, fmt.Errorf("title required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	priority := in.Priority
	if priority == "" {
		priority = service.PriorityMedium
	}
	now := f.stamp()
	t := service.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     in.DueDate,
		UserID:      FakeUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service. Only non-nil fields are applied.
func (f *FakeService) UpdateTask(ctx context.Context, id string, in service.UpdateTaskInput) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		t := &f.tasks[i]
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = in.Description
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
		t.UpdatedAt = f.stamp()
		return *t, nil
	}
	return service.Task{}, fmt.Errorf("task not found: %s", id)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task not found: %s", id)
}

// ToggleComplete implements service.Service.
func (f *FakeService) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	if f.ToggleCompleteErr != nil {
		return service.Task{}, f.ToggleCompleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			f.tasks[i].UpdatedAt = f.stamp()
			return f.tasks[i], nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found: %s", id)
}
