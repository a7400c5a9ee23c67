package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrListNotFound        = errors.New("list not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("focus session not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTaskArchived        = errors.New("task is archived")
	ErrNoTasksSelected     = errors.New("no tasks selected")
	ErrTooManyTasks        = errors.New("at most three tasks can be selected")
	ErrTaskNotSelectable   = errors.New("task is not selectable for a focus session")
	ErrUnknownTrip         = errors.New("unknown trip")
	ErrSessionActive       = errors.New("a focus session is already active")
	ErrNoActiveSession     = errors.New("no active focus session")
	ErrSessionNotEnded     = errors.New("focus session has not ended")
	ErrSessionAlreadyEnded = errors.New("focus session has already ended")
)

// Enums and types
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
}

// TaskList represents a named list that owns tasks
type TaskList struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Task represents a task in the system. A task belongs to exactly one list.
type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ListID    uuid.UUID  `json:"list_id" db:"list_id"`
	Title     string     `json:"title" db:"title"`
	Priority  Priority   `json:"priority" db:"priority"`
	DueDate   *time.Time `json:"due_date" db:"due_date"`
	Status    TaskStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// FocusSessionRecord is the persisted outcome of a completed focus session.
// DistanceKm carries the full trip distance even when the session ended
// early; the prorated figure is a live display value only.
type FocusSessionRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	StartedAt       time.Time `json:"started_at" db:"started_at"`
	EndedAt         time.Time `json:"ended_at" db:"ended_at"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	TasksCompleted  int       `json:"tasks_completed" db:"tasks_completed"`
	TripID          string    `json:"trip_id" db:"trip_id"`
	TripName        string    `json:"trip_name" db:"trip_name"`
	DistanceKm      int64     `json:"distance_km" db:"distance_km"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// FocusStats is recomputed on demand from all of a user's session rows.
type FocusStats struct {
	TotalSessions        int   `json:"total_sessions"`
	TotalMinutes         int   `json:"total_minutes"`
	TasksCompleted       int   `json:"tasks_completed"`
	AverageSessionLength int   `json:"average_session_length"`
	TotalDistanceKm      int64 `json:"total_distance_km"`
	FocusHealthScore     int   `json:"focus_health_score"`
}

// HealthBand maps a focus health score to its display band.
func HealthBand(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Work"
	}
}

// Business logic methods for Task

// IsCompleted reports whether the task is in the completed state.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsDueOn reports whether the task's due date falls on the same local
// calendar day as the given time. Tasks without a due date never match.
func (t *Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsSelectable reports whether the task can be picked for a focus session
// starting at now: not completed, not archived, and either undated or due
// on the current calendar day.
func (t *Task) IsSelectable(now time.Time) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	return t.DueDate == nil || t.IsDueOn(now)
}

// ToggleStatus flips a task between pending and completed. Archived is
// terminal and cannot be toggled.
func (t *Task) ToggleStatus() (TaskStatus, error) {
	switch t.Status {
	case TaskStatusPending:
		return TaskStatusCompleted, nil
	case TaskStatusCompleted:
		return TaskStatusPending, nil
	default:
		return t.Status, ErrTaskArchived
	}
}

// Utility methods
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusArchived:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
