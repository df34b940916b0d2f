package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.New(),
		Title:     "Write docs",
		Status:    TaskStatusPending,
		DueDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(task *Task)
		wantErr error
	}{
		{name: "valid", mutate: func(task *Task) {}},
		{name: "nil id", mutate: func(task *Task) { task.ID = uuid.Nil }, wantErr: ErrEmptyTaskID},
		{name: "blank title", mutate: func(task *Task) { task.Title = "   " }, wantErr: ErrEmptyTaskTitle},
		{name: "unknown status", mutate: func(task *Task) { task.Status = "DONE" }, wantErr: ErrInvalidTaskStatus},
		{name: "missing due date", mutate: func(task *Task) { task.DueDate = time.Time{} }, wantErr: ErrMissingDueDate},
		{
			name: "updatedAt before createdAt",
			mutate: func(task *Task) {
				task.UpdatedAt = task.CreatedAt.Add(-time.Second)
			},
			wantErr: ErrInvalidTimestamps,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseTaskStatus(" IN_PROGRESS ")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusInProgress, status)

	_, err = ParseTaskStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	assert.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "status", vErr.Field)
}

func TestCreateTaskInput(t *testing.T) {
	t.Parallel()

	in := CreateTaskInput{Title: "  Ship release  ", DueDate: time.Now()}
	in.Normalize()
	assert.Equal(t, "Ship release", in.Title)
	assert.Equal(t, TaskStatusPending, in.Status)
	assert.NoError(t, in.Validate())

	missingTitle := CreateTaskInput{DueDate: time.Now()}
	missingTitle.Normalize()
	assert.ErrorIs(t, missingTitle.Validate(), ErrEmptyTaskTitle)

	missingDue := CreateTaskInput{Title: "x"}
	assert.ErrorIs(t, missingDue.Validate(), ErrMissingDueDate)

	badStatus := CreateTaskInput{Title: "x", Status: "LATER", DueDate: time.Now()}
	assert.ErrorIs(t, badStatus.Validate(), ErrInvalidTaskStatus)
}

func TestUpdateTaskInputApply(t *testing.T) {
	t.Parallel()

	original := validTask()
	desc := "first"
	original.Description = &desc

	title := "  Renamed "
	status := TaskStatusCompleted
	due := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	patch := UpdateTaskInput{Title: &title, Status: &status, DueDate: &due}
	require.NoError(t, patch.Validate())

	updated := patch.Apply(&original)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, TaskStatusCompleted, updated.Status)
	assert.True(t, due.Equal(updated.DueDate))
	assert.Equal(t, time.UTC, updated.DueDate.Location())
	require.NotNil(t, updated.Description)
	assert.Equal(t, "first", *updated.Description)

	// The original is untouched, including the shared description pointer.
	assert.Equal(t, "Write docs", original.Title)
	*updated.Description = "changed"
	assert.Equal(t, "first", *original.Description)
}

func TestUpdateTaskInputValidate(t *testing.T) {
	t.Parallel()

	blank := ""
	assert.ErrorIs(t, UpdateTaskInput{Title: &blank}.Validate(), ErrEmptyTaskTitle)

	bad := TaskStatus("nope")
	assert.ErrorIs(t, UpdateTaskInput{Status: &bad}.Validate(), ErrInvalidTaskStatus)

	zero := time.Time{}
	assert.ErrorIs(t, UpdateTaskInput{DueDate: &zero}.Validate(), ErrMissingDueDate)

	assert.NoError(t, UpdateTaskInput{}.Validate())
}
