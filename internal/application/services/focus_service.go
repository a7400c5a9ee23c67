package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/domain/trips"
	"github.com/odysseyapp/core/internal/focus"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// FocusService coordinates focus sessions. It enforces one live session per
// user, translates API requests into state machine calls and, on finish,
// reconciles task statuses and hands the summary to the session service.
type FocusService struct {
	mu     sync.Mutex
	active map[uuid.UUID]*focus.Session

	taskService    ports.TaskService
	sessionService ports.SessionService
	clock          ports.Clock
	confirmer      ports.EndConfirmer
	cfg            focus.Config
	logger         *logger.Logger
}

// NewFocusService creates a new focus service. A nil confirmer means the
// caller carries the end confirmation itself (the HTTP API sends the
// confirmed flag with the end request).
func NewFocusService(taskService ports.TaskService, sessionService ports.SessionService, clock ports.Clock, confirmer ports.EndConfirmer, cfg focus.Config, logger *logger.Logger) *FocusService {
	return &FocusService{
		active:         make(map[uuid.UUID]*focus.Session),
		taskService:    taskService,
		sessionService: sessionService,
		clock:          clock,
		confirmer:      confirmer,
		cfg:            cfg,
		logger:         logger,
	}
}

// Trips returns the trip catalog for the trip selection stage.
func (s *FocusService) Trips() []trips.Trip {
	return trips.Catalog()
}

// Start begins a new session for the user. The requested tasks must be
// selectable (pending, undated or due today); a session that is still
// running or paused blocks a new start. An ended session that was never
// finished is abandoned and replaced.
func (s *FocusService) Start(ctx context.Context, userID uuid.UUID, req ports.StartFocusRequest) (*ports.FocusSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.active[userID]; ok {
		if existing.State() != focus.StateEnded {
			return nil, entities.ErrSessionActive
		}
		s.logger.Warnw("Replacing unfinished ended session", "user_id", userID)
		delete(s.active, userID)
	}

	pool, err := s.taskService.GetSelectableTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	picker := focus.NewPicker(pool, s.clock.Now())
	for _, id := range req.TaskIDs {
		if picker.IsSelected(id) {
			continue
		}
		if !picker.Toggle(id) {
			return nil, entities.ErrTaskNotSelectable
		}
	}
	tasks, err := picker.Confirm()
	if err != nil {
		return nil, err
	}

	plan, err := focus.PlanSession(tasks, req.TripID)
	if err != nil {
		return nil, err
	}

	session, err := focus.NewSession(plan, s.clock, s.confirmer, s.cfg, func(reason focus.EndReason) {
		s.logger.Infow("Focus session ended", "user_id", userID, "reason", reason.String())
	})
	if err != nil {
		return nil, err
	}
	s.active[userID] = session

	tripID := ""
	if plan.Trip != nil {
		tripID = plan.Trip.ID
	}
	s.logger.Infow("Focus session started",
		"user_id", userID,
		"task_count", len(tasks),
		"trip_id", tripID,
	)

	return snapshot(session), nil
}

// State returns the current snapshot of the user's session.
func (s *FocusService) State(ctx context.Context, userID uuid.UUID) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

// Pause freezes the user's session timer.
func (s *FocusService) Pause(ctx context.Context, userID uuid.UUID) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	session.Pause()
	return snapshot(session), nil
}

// Resume restarts a paused session timer.
func (s *FocusService) Resume(ctx context.Context, userID uuid.UUID) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	session.Resume()
	return snapshot(session), nil
}

// CompleteTask marks one selected task complete inside the live session.
// Nothing is persisted until Finish.
func (s *FocusService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	session.CompleteTask(taskID)
	return snapshot(session), nil
}

// End requests an early end. An unconfirmed request leaves the session in
// its prior state; a confirmed one moves it to the terminal state, where it
// waits for reconciliation and Finish.
func (s *FocusService) End(ctx context.Context, userID uuid.UUID, req ports.EndFocusRequest) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if req.Confirmed {
		session.RequestEnd(ctx)
	}
	return snapshot(session), nil
}

// ToggleCompleted edits the completed set during post-end reconciliation.
func (s *FocusService) ToggleCompleted(ctx context.Context, userID, taskID uuid.UUID) (*ports.FocusSnapshot, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if !session.ToggleCompleted(taskID) {
		return nil, entities.ErrSessionNotEnded
	}
	return snapshot(session), nil
}

// Finish concludes an ended session: with mark_complete the reconciled
// tasks are persisted as completed, the session row is recorded and the
// stats recomputed. Recording is best effort; a failed insert is logged and
// never blocks the finish.
func (s *FocusService) Finish(ctx context.Context, userID uuid.UUID, req ports.FinishFocusRequest) (*entities.FocusStats, error) {
	session, err := s.get(userID)
	if err != nil {
		return nil, err
	}

	summary, err := session.Finish(req.MarkComplete)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.active, userID)
	s.mu.Unlock()

	if req.MarkComplete && len(summary.CompletedTaskIDs) > 0 {
		if err := s.taskService.MarkCompleted(ctx, userID, summary.CompletedTaskIDs); err != nil {
			s.logger.Warnw("Failed to persist completed tasks", "user_id", userID, "error", err)
		}
	}

	record := &entities.FocusSessionRecord{
		ID:              uuid.New(),
		UserID:          userID,
		StartedAt:       summary.StartedAt,
		EndedAt:         summary.EndedAt,
		DurationSeconds: summary.ConsumedSeconds,
		TasksCompleted:  len(summary.CompletedTaskIDs),
		CreatedAt:       s.clock.Now(),
	}
	if summary.Trip != nil {
		record.TripID = summary.Trip.ID
		record.TripName = summary.Trip.Name()
		// The full trip distance is credited even when the session ended
		// early; distance is a reward, not a measurement.
		record.DistanceKm = summary.Trip.DistanceKm
	}

	if err := s.sessionService.RecordSession(ctx, record); err != nil {
		s.logger.Warnw("Failed to record focus session", "user_id", userID, "error", err)
	}

	return s.sessionService.RecomputeStats(ctx, userID), nil
}

func (s *FocusService) get(userID uuid.UUID) (*focus.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.active[userID]
	if !ok {
		return nil, entities.ErrNoActiveSession
	}
	return session, nil
}

// snapshot assembles the API view of a session.
func snapshot(session *focus.Session) *ports.FocusSnapshot {
	completed := make(map[uuid.UUID]bool)
	for _, id := range session.CompletedTaskIDs() {
		completed[id] = true
	}

	tasks := session.Tasks()
	taskStates := make([]ports.FocusTaskState, 0, len(tasks))
	for _, t := range tasks {
		taskStates = append(taskStates, ports.FocusTaskState{
			ID:        t.ID,
			Title:     t.Title,
			Completed: completed[t.ID],
		})
	}

	snap := &ports.FocusSnapshot{
		State:            session.State().String(),
		StartedAt:        session.StartedAt(),
		ElapsedSeconds:   session.ElapsedSeconds(),
		RemainingSeconds: session.RemainingSeconds(),
		RemainingKm:      session.RemainingDistanceKm(),
		Trip:             session.Trip(),
		Tasks:            taskStates,
	}
	if session.State() == focus.StateEnded {
		snap.EndReason = session.EndReason().String()
	}
	return snap
}
