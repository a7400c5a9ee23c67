package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// TaskService handles task-related operations. All task status writes go
// through here; the focus session flow requests completions rather than
// mutating tasks itself.
type TaskService struct {
	taskRepo ports.TaskRepository
	listRepo ports.ListRepository
	clock    ports.Clock
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, listRepo ports.ListRepository, clock ports.Clock, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		listRepo: listRepo,
		clock:    clock,
		logger:   logger,
	}
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	list, err := s.listRepo.GetByID(ctx, req.ListID)
	if err != nil {
		return nil, fmt.Errorf("list not found: %w", err)
	}
	if list.UserID != userID {
		return nil, entities.ErrUnauthorized
	}

	priority := req.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}

	task := &entities.Task{
		ID:        uuid.New(),
		UserID:    userID,
		ListID:    req.ListID,
		Title:     req.Title,
		Priority:  priority,
		DueDate:   req.DueDate,
		Status:    entities.TaskStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "title", task.Title, "priority", task.Priority)

	return task, nil
}

// GetTask retrieves one of the user's tasks by ID
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if task.UserID != userID {
		return nil, entities.ErrUnauthorized
	}
	return task, nil
}

// ListTasks retrieves the user's tasks with filtering
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.GetForUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask updates a task's fields
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		task.Status = *req.Status
	}

	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", task.ID)

	return task, nil
}

// ToggleComplete flips a task between pending and completed. Archived
// tasks are not toggleable.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	next, err := task.ToggleStatus()
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, next); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	task.Status = next
	task.UpdatedAt = time.Now()

	s.logger.Infow("Task status toggled", "task_id", taskID, "status", next)

	return task, nil
}

// MarkCompleted records a set of focus-session task completions. Failures
// on individual tasks are logged and do not block the rest; completion
// writes are last-write-wins keyed by task id.
func (s *TaskService) MarkCompleted(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) error {
	var errs []error
	for _, id := range taskIDs {
		if err := s.taskRepo.UpdateStatus(ctx, id, entities.TaskStatusCompleted); err != nil {
			s.logger.Warnw("Failed to mark task complete", "task_id", id, "user_id", userID, "error", err)
			errs = append(errs, fmt.Errorf("task %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", taskID)

	return nil
}

// GetSelectableTasks returns the tasks eligible for the focus session
// selection stage: pending, and either undated or due today.
func (s *TaskService) GetSelectableTasks(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.GetForUser(ctx, userID, ports.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := s.clock.Now()
	selectable := make([]*entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsSelectable(now) {
			selectable = append(selectable, t)
		}
	}
	return selectable, nil
}
