package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		validator:   NewValidator(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	input, err := parseCreateRequest(r, h.validator)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Create(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query(), h.validator)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.List(r.Context(), query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// UpdateTask handles PATCH /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patch, err := parseUpdateRequest(r, h.validator)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task deleted",
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}
