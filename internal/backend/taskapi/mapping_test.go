package taskapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdo/internal/service"
)

func ptr[T any](v T) *T { return &v }

func TestWireTaskDecode(t *testing.T) {
	raw := `{
		"id": "t-1",
		"title": "Write report",
		"description": "Quarterly numbers",
		"completed": true,
		"priority": "high",
		"due_date": "2024-04-01",
		"user_id": "u-1",
		"created_at": "2024-03-01T12:00:01Z",
		"updated_at": "2024-03-01T12:00:02Z"
	}`

	var w wireTask
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	task := toTask(w)
	assert.Equal(t, "t-1", task.ID)
	assert.Equal(t, "Write report", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "Quarterly numbers", *task.Description)
	assert.True(t, task.Completed)
	assert.Equal(t, service.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-04-01", *task.DueDate)
	assert.Equal(t, "u-1", task.UserID)
	assert.Equal(t, "2024-03-01T12:00:01Z", task.CreatedAt)
	assert.Equal(t, "2024-03-01T12:00:02Z", task.UpdatedAt)
}

func TestWireTaskAbsentOptionalFields(t *testing.T) {
	raw := `{"id":"t-1","title":"Buy milk","completed":false,"priority":"medium","user_id":"u-1","created_at":"c","updated_at":"u"}`

	var w wireTask
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	task := toTask(w)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
}

func TestWireRoundTripLossless(t *testing.T) {
	orig := service.Task{
		ID:          "t-1",
		Title:       "Write report",
		Description: ptr("Quarterly numbers"),
		Completed:   true,
		Priority:    service.PriorityLow,
		DueDate:     ptr("2024-04-01"),
		UserID:      "u-1",
		CreatedAt:   "2024-03-01T12:00:01Z",
		UpdatedAt:   "2024-03-01T12:00:02Z",
	}

	assert.Equal(t, orig, toTask(toWire(orig)))
}

func TestWireCreateOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(toWireCreate(service.CreateTaskInput{Title: "Buy milk"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Buy milk"}`, string(data))
}

func TestWireCreateIncludesSetFields(t *testing.T) {
	data, err := json.Marshal(toWireCreate(service.CreateTaskInput{
		Title:    "Buy milk",
		Priority: service.PriorityHigh,
		DueDate:  ptr("2024-04-01"),
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Buy milk","priority":"high","due_date":"2024-04-01"}`, string(data))
}

func TestWireUpdateEmptyInputSendsNoFields(t *testing.T) {
	data, err := json.Marshal(toWireUpdate(service.UpdateTaskInput{}))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestWireUpdateDistinguishesEmptyFromAbsent(t *testing.T) {
	// Pointer to "" must serialize the field; nil must omit it.
	data, err := json.Marshal(toWireUpdate(service.UpdateTaskInput{Description: ptr("")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":""}`, string(data))
}

func TestWireUpdateIncludesExplicitFalse(t *testing.T) {
	data, err := json.Marshal(toWireUpdate(service.UpdateTaskInput{Completed: ptr(false)}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed":false}`, string(data))
}
