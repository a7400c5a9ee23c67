package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// Focus health score weights and weekly targets: up to 40 points for
// showing up across distinct days, 30 for total focus minutes against one
// hour per day, 30 for tasks completed against three per day.
const (
	healthWindowDays      = 7
	consistencyMaxPoints  = 40.0
	focusTimeMaxPoints    = 30.0
	taskScoreMaxPoints    = 30.0
	targetWeeklyMinutes   = healthWindowDays * 60.0
	targetWeeklyTaskCount = healthWindowDays * 3.0
)

// SessionService persists completed focus sessions and recomputes the
// aggregate focus stats. Stats are always recomputed from the source rows,
// never patched incrementally, so a failed recompute self-heals on the
// next read.
type SessionService struct {
	sessionRepo ports.SessionRepository
	clock       ports.Clock
	logger      *logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo ports.SessionRepository, clock ports.Clock, logger *logger.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		clock:       clock,
		logger:      logger,
	}
}

// RecordSession appends a persisted session row. The error return lets a
// stricter caller retry; the focus flow treats it as best effort.
func (s *SessionService) RecordSession(ctx context.Context, record *entities.FocusSessionRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock.Now()
	}

	if err := s.sessionRepo.Insert(ctx, record); err != nil {
		return fmt.Errorf("failed to insert session record: %w", err)
	}

	s.logger.Infow("Focus session recorded",
		"user_id", record.UserID,
		"trip_id", record.TripID,
		"duration_seconds", record.DurationSeconds,
		"tasks_completed", record.TasksCompleted,
	)

	return nil
}

// GetSessions returns a user's session history, newest first
func (s *SessionService) GetSessions(ctx context.Context, userID uuid.UUID) ([]*entities.FocusSessionRecord, error) {
	sessions, err := s.sessionRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	return sessions, nil
}

// RecomputeStats re-reads all of the user's session rows and rebuilds the
// aggregate stats. Repository failures are logged and yield a zero-valued
// snapshot rather than an error; stats are display data and must never
// block the caller.
func (s *SessionService) RecomputeStats(ctx context.Context, userID uuid.UUID) *entities.FocusStats {
	stats := &entities.FocusStats{}

	sessions, err := s.sessionRepo.GetForUser(ctx, userID)
	if err != nil {
		s.logger.Warnw("Failed to fetch sessions for stats", "user_id", userID, "error", err)
		return stats
	}

	var totalSeconds, tasksCompleted int
	var totalDistance int64
	for _, sess := range sessions {
		totalSeconds += sess.DurationSeconds
		tasksCompleted += sess.TasksCompleted
		totalDistance += sess.DistanceKm
	}

	stats.TotalSessions = len(sessions)
	stats.TotalMinutes = totalSeconds / 60
	stats.TasksCompleted = tasksCompleted
	stats.TotalDistanceKm = totalDistance
	if stats.TotalSessions > 0 {
		stats.AverageSessionLength = stats.TotalMinutes / stats.TotalSessions
	}
	stats.FocusHealthScore = s.focusHealthScore(ctx, userID)

	return stats
}

// focusHealthScore blends consistency, focus time and task completion over
// the trailing seven days into a 0-100 score.
func (s *SessionService) focusHealthScore(ctx context.Context, userID uuid.UUID) int {
	now := s.clock.Now()
	windowStart := now.AddDate(0, 0, -healthWindowDays)

	inWindow, err := s.sessionRepo.GetForUserSince(ctx, userID, windowStart)
	if err != nil {
		s.logger.Warnw("Failed to fetch sessions for health score", "user_id", userID, "error", err)
		return 0
	}
	if len(inWindow) == 0 {
		return 0
	}

	// Consistency: distinct local calendar days with at least one session.
	days := make(map[string]struct{}, healthWindowDays)
	var windowSeconds float64
	var windowTasks int
	for _, sess := range inWindow {
		days[sess.CreatedAt.Format("2006-01-02")] = struct{}{}
		windowSeconds += float64(sess.DurationSeconds)
		windowTasks += sess.TasksCompleted
	}

	consistency := math.Min(float64(len(days))/healthWindowDays*consistencyMaxPoints, consistencyMaxPoints)
	focusTime := math.Min(windowSeconds/60/targetWeeklyMinutes*focusTimeMaxPoints, focusTimeMaxPoints)
	taskScore := math.Min(float64(windowTasks)/targetWeeklyTaskCount*taskScoreMaxPoints, taskScoreMaxPoints)

	total := int(math.Round(consistency + focusTime + taskScore))
	if total > 100 {
		return 100
	}
	return total
}
