package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Task-specific validation errors
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrMissingDueDate    = errors.New("task due date is required")
	ErrInvalidTimestamps = errors.New("task updatedAt cannot precede createdAt")
)

// TaskStatuses lists every valid status in declaration order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a raw string into a TaskStatus.
// Surrounding whitespace is ignored; matching is exact otherwise.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of PENDING, IN_PROGRESS, COMPLETED", ErrInvalidTaskStatus)
	}
	return status, nil
}

// Task is a unit of work tracked by the application. The ID and both
// timestamps are assigned by the store and are never set by callers.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	if t.DueDate.IsZero() {
		return ErrMissingDueDate
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrInvalidTimestamps
	}

	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

// CreateTaskInput carries the caller-controlled fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus
	DueDate     time.Time
}

// Normalize applies defaults: an empty status becomes PENDING and the
// title is trimmed.
func (in *CreateTaskInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = TaskStatusPending
	}
}

// Validate checks the input after normalization.
func (in CreateTaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyTaskTitle)
	}
	if in.Status != "" && !in.Status.Valid() {
		return NewValidationError("status", "has invalid value", ErrInvalidTaskStatus)
	}
	if in.DueDate.IsZero() {
		return NewValidationError("dueDate", "is required", ErrMissingDueDate)
	}
	return nil
}

// UpdateTaskInput is a partial patch. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
}

// Validate checks the fields that are present in the patch.
func (in UpdateTaskInput) Validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return NewValidationError("title", "cannot be blank", ErrEmptyTaskTitle)
	}
	if in.Status != nil && !in.Status.Valid() {
		return NewValidationError("status", "has invalid value", ErrInvalidTaskStatus)
	}
	if in.DueDate != nil && in.DueDate.IsZero() {
		return NewValidationError("dueDate", "cannot be empty", ErrMissingDueDate)
	}
	return nil
}

// Apply returns a copy of t with the patch applied. Timestamps are not
// touched; maintaining updatedAt is the store's job.
func (in UpdateTaskInput) Apply(t *Task) *Task {
	out := t.Clone()
	if in.Title != nil {
		out.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		d := *in.Description
		out.Description = &d
	}
	if in.Status != nil {
		out.Status = *in.Status
	}
	if in.DueDate != nil {
		out.DueDate = in.DueDate.UTC()
	}
	return out
}
