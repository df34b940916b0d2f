package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,notblank"`
	Description *string `json:"description"`
	Status      string  `json:"status"      validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	DueDate     string  `json:"dueDate"     validate:"required,isodate"`
}

// UpdateTaskRequest defines the payload for PATCH /api/tasks/{id}.
// Every field is optional; absent or null fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitnil,notblank"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitnil,oneof=PENDING IN_PROGRESS COMPLETED"`
	DueDate     *string `json:"dueDate"     validate:"omitnil,isodate"`
}

// ListTasksQuery holds the raw query parameters of GET /api/tasks.
// Page and Limit are parsed before validation so bounds can be checked.
type ListTasksQuery struct {
	Title         string   `query:"title"`
	Status        []string `query:"status"        validate:"omitempty,dive,oneof=PENDING IN_PROGRESS COMPLETED"`
	DueDateFrom   string   `query:"dueDateFrom"   validate:"omitempty,isodate"`
	DueDateTo     string   `query:"dueDateTo"     validate:"omitempty,isodate"`
	CreatedAtFrom string   `query:"createdAtFrom" validate:"omitempty,isodate"`
	CreatedAtTo   string   `query:"createdAtTo"   validate:"omitempty,isodate"`
	UpdatedAtFrom string   `query:"updatedAtFrom" validate:"omitempty,isodate"`
	UpdatedAtTo   string   `query:"updatedAtTo"   validate:"omitempty,isodate"`
	SortBy        string   `query:"sortBy"        validate:"omitempty,oneof=id title status dueDate createdAt updatedAt"`
	Page          *int     `query:"page"          validate:"omitnil,min=1"`
	Limit         *int     `query:"limit"         validate:"omitnil,min=1,max=100"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskListResponse is one page of tasks with pagination metadata.
type TaskListResponse struct {
	Data []TaskResponse  `json:"data"`
	Meta domain.PageMeta `json:"meta"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// pageToResponse converts a page of domain tasks to a TaskListResponse
func pageToResponse(page *domain.Page[*domain.Task]) TaskListResponse {
	data := make([]TaskResponse, 0, len(page.Data))
	for _, task := range page.Data {
		data = append(data, taskToResponse(task))
	}
	return TaskListResponse{Data: data, Meta: page.Meta}
}
