package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/ports"
)

// SessionRepositoryImpl implements the SessionRepository interface
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new focus session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Insert(ctx context.Context, record *entities.FocusSessionRecord) error {
	query := `
		INSERT INTO focus_sessions (id, user_id, started_at, ended_at, duration_seconds,
			tasks_completed, trip_id, trip_name, distance_km, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.StartedAt, record.EndedAt,
		record.DurationSeconds, record.TasksCompleted,
		record.TripID, record.TripName, record.DistanceKm, record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}

	return nil
}

func (r *SessionRepositoryImpl) GetForUser(ctx context.Context, userID uuid.UUID) ([]*entities.FocusSessionRecord, error) {
	query := `
		SELECT id, user_id, started_at, ended_at, duration_seconds,
			tasks_completed, trip_id, trip_name, distance_km, created_at
		FROM focus_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var sessions []*entities.FocusSessionRecord
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions for user: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepositoryImpl) GetForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.FocusSessionRecord, error) {
	query := `
		SELECT id, user_id, started_at, ended_at, duration_seconds,
			tasks_completed, trip_id, trip_name, distance_km, created_at
		FROM focus_sessions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`

	var sessions []*entities.FocusSessionRecord
	err := r.db.SelectContext(ctx, &sessions, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("get sessions for user since: %w", err)
	}

	return sessions, nil
}
