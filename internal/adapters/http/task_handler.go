package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), userID, req)
	if err != nil {
		return taskError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask handles getting a task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return taskError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks handles listing tasks with optional filters
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	filter := ports.TaskFilter{}

	if listIDStr := c.QueryParam("list_id"); listIDStr != "" {
		listID, err := uuid.Parse(listIDStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid list_id parameter")
		}
		filter.ListID = &listID
	}

	if status := c.QueryParam("status"); status != "" {
		taskStatus := entities.TaskStatus(status)
		if !taskStatus.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &taskStatus
	}

	if priority := c.QueryParam("priority"); priority != "" {
		taskPriority := entities.Priority(priority)
		if !taskPriority.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority parameter")
		}
		filter.Priority = &taskPriority
	}

	if dueBefore := c.QueryParam("due_before"); dueBefore != "" {
		t, err := time.Parse(time.RFC3339, dueBefore)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid due_before parameter")
		}
		filter.DueBefore = &t
	}

	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		filter.Limit = limit
	}

	filter.SortBy = c.QueryParam("sort_by")
	filter.SortOrder = c.QueryParam("sort_order")

	tasks, err := h.taskService.ListTasks(c.Request().Context(), userID, filter)
	if err != nil {
		h.logger.Errorw("List tasks failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetSelectableTasks returns the tasks eligible for a focus session: pending
// and either undated or due today.
func (h *TaskHandler) GetSelectableTasks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	tasks, err := h.taskService.GetSelectableTasks(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get selectable tasks failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles updating a task
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), userID, taskID, req)
	if err != nil {
		return taskError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, task)
}

// ToggleComplete flips a task between pending and completed
func (h *TaskHandler) ToggleComplete(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.ToggleComplete(c.Request().Context(), userID, taskID)
	if err != nil {
		return taskError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles deleting a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		return taskError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

func taskError(c echo.Context, log *logger.Logger, err error, userID uuid.UUID) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrListNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "List not found")
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "Task belongs to another user")
	case errors.Is(err, entities.ErrTaskArchived):
		return echo.NewHTTPError(http.StatusConflict, "Task is archived")
	case errors.Is(err, entities.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task status")
	default:
		log.Errorw("Task operation failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Task operation failed")
	}
}
