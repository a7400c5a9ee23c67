package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odysseyapp/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListRepository defines the interface for task list data operations
type ListRepository interface {
	Create(ctx context.Context, list *entities.TaskList) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TaskList, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]*entities.TaskList, error)
	Update(ctx context.Context, list *entities.TaskList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository defines the interface for task data operations. It is the
// single writer of task status; the focus session state machine only
// requests status changes through UpdateStatus.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	GetForUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	GetForList(ctx context.Context, listID uuid.UUID) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID, filter TaskFilter) (int64, error)
}

// SessionRepository defines the interface for persisted focus session rows
type SessionRepository interface {
	Insert(ctx context.Context, record *entities.FocusSessionRecord) error
	GetForUser(ctx context.Context, userID uuid.UUID) ([]*entities.FocusSessionRecord, error)
	GetForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.FocusSessionRecord, error)
}

// TickerHandle is a cancellable handle to a scheduled tick or delay.
type TickerHandle interface {
	Stop()
}

// Clock abstracts wall-clock time and tick scheduling so the focus session
// state machine is testable without real waits.
type Clock interface {
	Now() time.Time
	// Schedule invokes fn repeatedly every interval until the handle is stopped.
	Schedule(interval time.Duration, fn func()) TickerHandle
	// After invokes fn once after d unless the handle is stopped first.
	After(d time.Duration, fn func()) TickerHandle
}

// EndConfirmer is consulted before an early user-requested end. The session
// proceeds to its terminal state only on an affirmative answer.
type EndConfirmer interface {
	ConfirmEnd(ctx context.Context) bool
}

// Filter types for repository queries
type TaskFilter struct {
	ListID    *uuid.UUID
	Status    *entities.TaskStatus
	Priority  *entities.Priority
	DueBefore *time.Time
	DueAfter  *time.Time
	Search    *string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
