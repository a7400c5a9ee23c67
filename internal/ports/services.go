package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/domain/trips"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ListService interface for task list operations
type ListService interface {
	CreateList(ctx context.Context, userID uuid.UUID, req CreateListRequest) (*entities.TaskList, error)
	GetLists(ctx context.Context, userID uuid.UUID) ([]*entities.TaskList, error)
	RenameList(ctx context.Context, userID, listID uuid.UUID, title string) (*entities.TaskList, error)
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
}

// TaskService interface for task management operations
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	GetSelectableTasks(ctx context.Context, userID uuid.UUID) ([]*entities.Task, error)
	// MarkCompleted persists completed status for the given tasks after a
	// focus session is reconciled. Per-task failures are logged, not fatal.
	MarkCompleted(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) error
}

// FocusService coordinates at most one live focus session per user.
type FocusService interface {
	Start(ctx context.Context, userID uuid.UUID, req StartFocusRequest) (*FocusSnapshot, error)
	State(ctx context.Context, userID uuid.UUID) (*FocusSnapshot, error)
	Pause(ctx context.Context, userID uuid.UUID) (*FocusSnapshot, error)
	Resume(ctx context.Context, userID uuid.UUID) (*FocusSnapshot, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*FocusSnapshot, error)
	End(ctx context.Context, userID uuid.UUID, req EndFocusRequest) (*FocusSnapshot, error)
	ToggleCompleted(ctx context.Context, userID, taskID uuid.UUID) (*FocusSnapshot, error)
	Finish(ctx context.Context, userID uuid.UUID, req FinishFocusRequest) (*entities.FocusStats, error)
	Trips() []trips.Trip
}

// SessionService interface for session persistence and stats aggregation.
// RecordSession returns an error so stricter callers can retry, but the
// focus flow treats persistence as best effort and only logs failures.
type SessionService interface {
	RecordSession(ctx context.Context, record *entities.FocusSessionRecord) error
	GetSessions(ctx context.Context, userID uuid.UUID) ([]*entities.FocusSessionRecord, error)
	RecomputeStats(ctx context.Context, userID uuid.UUID) *entities.FocusStats
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// List related types
type CreateListRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
	Icon  string `json:"icon" validate:"omitempty,max=50"`
}

// Task related types
type CreateTaskRequest struct {
	ListID   uuid.UUID         `json:"list_id" validate:"required"`
	Title    string            `json:"title" validate:"required,min=1,max=255"`
	Priority entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  *time.Time        `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title    *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Priority *entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  *time.Time         `json:"due_date"`
	Status   *entities.TaskStatus `json:"status" validate:"omitempty,oneof=pending completed archived"`
}

// Focus session related types
type StartFocusRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" validate:"required,min=1,max=3"`
	// TripID selects a catalog trip for countdown mode; empty starts an
	// open-ended count-up session.
	TripID string `json:"trip_id"`
}

type EndFocusRequest struct {
	Confirmed bool `json:"confirmed"`
}

type FinishFocusRequest struct {
	MarkComplete bool `json:"mark_complete"`
}

type ToggleFocusTaskRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`
}

// FocusTaskState is one selected task as seen inside a live session.
type FocusTaskState struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// FocusSnapshot is a point-in-time view of a live or ended session. For
// countdown sessions RemainingSeconds and RemainingKm carry the readings;
// count-up sessions report elapsed time only.
type FocusSnapshot struct {
	State            string           `json:"state"`
	StartedAt        time.Time        `json:"started_at"`
	ElapsedSeconds   int              `json:"elapsed_seconds"`
	RemainingSeconds int              `json:"remaining_seconds"`
	RemainingKm      int64            `json:"remaining_km"`
	Trip             *trips.Trip      `json:"trip,omitempty"`
	Tasks            []FocusTaskState `json:"tasks"`
	EndReason        string           `json:"end_reason,omitempty"`
}

// StatsResponse pairs the recomputed stats with the display band.
type StatsResponse struct {
	Stats *entities.FocusStats `json:"stats"`
	Band  string               `json:"band"`
}
