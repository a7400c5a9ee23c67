package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/focus"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// fakeTaskService serves a fixed selectable pool and records which tasks
// get marked completed.
type fakeTaskService struct {
	mu         sync.Mutex
	selectable []*entities.Task
	marked     []uuid.UUID
	markErr    error
}

func (f *fakeTaskService) CreateTask(context.Context, uuid.UUID, ports.CreateTaskRequest) (*entities.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) GetTask(context.Context, uuid.UUID, uuid.UUID) (*entities.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) ListTasks(context.Context, uuid.UUID, ports.TaskFilter) ([]*entities.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) UpdateTask(context.Context, uuid.UUID, uuid.UUID, ports.UpdateTaskRequest) (*entities.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) ToggleComplete(context.Context, uuid.UUID, uuid.UUID) (*entities.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) DeleteTask(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeTaskService) GetSelectableTasks(context.Context, uuid.UUID) ([]*entities.Task, error) {
	return f.selectable, nil
}

func (f *fakeTaskService) MarkCompleted(_ context.Context, _ uuid.UUID, taskIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, taskIDs...)
	return f.markErr
}

// fakeSessionService records persisted sessions and returns canned stats.
type fakeSessionService struct {
	mu        sync.Mutex
	records   []*entities.FocusSessionRecord
	recordErr error
	stats     *entities.FocusStats
}

func (f *fakeSessionService) RecordSession(_ context.Context, record *entities.FocusSessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeSessionService) GetSessions(context.Context, uuid.UUID) ([]*entities.FocusSessionRecord, error) {
	return f.records, nil
}

func (f *fakeSessionService) RecomputeStats(context.Context, uuid.UUID) *entities.FocusStats {
	if f.stats != nil {
		return f.stats
	}
	return &entities.FocusStats{}
}

func pendingTask() *entities.Task {
	return &entities.Task{
		ID:     uuid.New(),
		Title:  "task",
		Status: entities.TaskStatusPending,
	}
}

func newFocusFixture(selectable ...*entities.Task) (*FocusService, *fakeTaskService, *fakeSessionService, *testClock) {
	tasks := &fakeTaskService{selectable: selectable}
	sessions := &fakeSessionService{}
	clock := newTestClock(time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC))
	svc := NewFocusService(tasks, sessions, clock, nil, focus.DefaultConfig(), logger.NewNop())
	return svc, tasks, sessions, clock
}

func TestFocusServiceStartRejectsUnselectableTask(t *testing.T) {
	svc, _, _, _ := newFocusFixture(pendingTask())

	_, err := svc.Start(context.Background(), uuid.New(), ports.StartFocusRequest{
		TaskIDs: []uuid.UUID{uuid.New()},
		TripID:  "earth-moon",
	})
	if !errors.Is(err, entities.ErrTaskNotSelectable) {
		t.Fatalf("err = %v, want ErrTaskNotSelectable", err)
	}
}

func TestFocusServiceStartRejectsUnknownTrip(t *testing.T) {
	task := pendingTask()
	svc, _, _, _ := newFocusFixture(task)

	_, err := svc.Start(context.Background(), uuid.New(), ports.StartFocusRequest{
		TaskIDs: []uuid.UUID{task.ID},
		TripID:  "earth-pluto",
	})
	if !errors.Is(err, entities.ErrUnknownTrip) {
		t.Fatalf("err = %v, want ErrUnknownTrip", err)
	}
}

func TestFocusServiceSingleSessionPerUser(t *testing.T) {
	task := pendingTask()
	svc, _, _, _ := newFocusFixture(task)
	userID := uuid.New()

	req := ports.StartFocusRequest{TaskIDs: []uuid.UUID{task.ID}, TripID: "earth-moon"}
	if _, err := svc.Start(context.Background(), userID, req); err != nil {
		t.Fatalf("first start: %v", err)
	}

	if _, err := svc.Start(context.Background(), userID, req); !errors.Is(err, entities.ErrSessionActive) {
		t.Fatalf("second start err = %v, want ErrSessionActive", err)
	}

	// A different user is unaffected.
	if _, err := svc.Start(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("other user start: %v", err)
	}
}

func TestFocusServiceStateWithoutSession(t *testing.T) {
	svc, _, _, _ := newFocusFixture()

	if _, err := svc.State(context.Background(), uuid.New()); !errors.Is(err, entities.ErrNoActiveSession) {
		t.Fatalf("err = %v, want ErrNoActiveSession", err)
	}
}

func TestFocusServiceLifecycle(t *testing.T) {
	taskA := pendingTask()
	taskB := pendingTask()
	svc, tasksSvc, sessionsSvc, clock := newFocusFixture(taskA, taskB)
	userID := uuid.New()
	ctx := context.Background()

	snap, err := svc.Start(ctx, userID, ports.StartFocusRequest{
		TaskIDs: []uuid.UUID{taskA.ID, taskB.ID},
		TripID:  "earth-moon",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.State != "running" || snap.RemainingSeconds != 1500 {
		t.Fatalf("start snapshot = %+v", snap)
	}

	clock.Tick(100)

	snap, err = svc.CompleteTask(ctx, userID, taskA.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !snap.Tasks[0].Completed || snap.Tasks[1].Completed {
		t.Fatalf("task states after complete = %+v", snap.Tasks)
	}

	// An unconfirmed end changes nothing.
	snap, err = svc.End(ctx, userID, ports.EndFocusRequest{Confirmed: false})
	if err != nil {
		t.Fatalf("End unconfirmed: %v", err)
	}
	if snap.State != "running" {
		t.Fatalf("state after unconfirmed end = %s, want running", snap.State)
	}

	snap, err = svc.End(ctx, userID, ports.EndFocusRequest{Confirmed: true})
	if err != nil {
		t.Fatalf("End confirmed: %v", err)
	}
	if snap.State != "ended" || snap.EndReason != "user" {
		t.Fatalf("snapshot after confirmed end = %+v", snap)
	}

	// Reconcile: also credit the second task.
	if _, err := svc.ToggleCompleted(ctx, userID, taskB.ID); err != nil {
		t.Fatalf("ToggleCompleted: %v", err)
	}

	if _, err := svc.Finish(ctx, userID, ports.FinishFocusRequest{MarkComplete: true}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if len(tasksSvc.marked) != 2 {
		t.Fatalf("marked tasks = %v, want both", tasksSvc.marked)
	}
	if len(sessionsSvc.records) != 1 {
		t.Fatalf("records = %d, want 1", len(sessionsSvc.records))
	}
	record := sessionsSvc.records[0]
	if record.DurationSeconds != 100 {
		t.Fatalf("duration = %d, want 100", record.DurationSeconds)
	}
	if record.TasksCompleted != 2 {
		t.Fatalf("tasks completed = %d, want 2", record.TasksCompleted)
	}
	// Ending early still credits the whole trip.
	if record.DistanceKm != 384_400 {
		t.Fatalf("distance = %d, want 384400", record.DistanceKm)
	}
	if record.TripID != "earth-moon" || record.TripName != "Earth → Moon" {
		t.Fatalf("trip fields = %q %q", record.TripID, record.TripName)
	}

	// The slot is free again.
	if _, err := svc.State(ctx, userID); !errors.Is(err, entities.ErrNoActiveSession) {
		t.Fatalf("state after finish = %v, want ErrNoActiveSession", err)
	}
}

func TestFocusServiceFinishWithoutMarkComplete(t *testing.T) {
	task := pendingTask()
	svc, tasksSvc, sessionsSvc, _ := newFocusFixture(task)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Start(ctx, userID, ports.StartFocusRequest{TaskIDs: []uuid.UUID{task.ID}}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if _, err := svc.End(ctx, userID, ports.EndFocusRequest{Confirmed: true}); err != nil {
		t.Fatalf("End: %v", err)
	}

	if _, err := svc.Finish(ctx, userID, ports.FinishFocusRequest{MarkComplete: false}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if len(tasksSvc.marked) != 0 {
		t.Fatalf("marked = %v, want none without mark_complete", tasksSvc.marked)
	}
	record := sessionsSvc.records[0]
	if record.TasksCompleted != 0 {
		t.Fatalf("tasks completed = %d, want 0", record.TasksCompleted)
	}
	// Count-up session: no trip, no distance.
	if record.TripID != "" || record.DistanceKm != 0 {
		t.Fatalf("count-up record trip fields = %q %d", record.TripID, record.DistanceKm)
	}
}

func TestFocusServiceFinishBeforeEnd(t *testing.T) {
	task := pendingTask()
	svc, _, _, _ := newFocusFixture(task)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Start(ctx, userID, ports.StartFocusRequest{TaskIDs: []uuid.UUID{task.ID}, TripID: "earth-moon"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := svc.Finish(ctx, userID, ports.FinishFocusRequest{MarkComplete: true}); !errors.Is(err, entities.ErrSessionNotEnded) {
		t.Fatalf("err = %v, want ErrSessionNotEnded", err)
	}

	// The failed finish must not evict the live session.
	if _, err := svc.State(ctx, userID); err != nil {
		t.Fatalf("session evicted by failed finish: %v", err)
	}
}

func TestFocusServiceRecordFailureDoesNotBlockFinish(t *testing.T) {
	task := pendingTask()
	svc, _, sessionsSvc, _ := newFocusFixture(task)
	sessionsSvc.recordErr = errors.New("db down")
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Start(ctx, userID, ports.StartFocusRequest{TaskIDs: []uuid.UUID{task.ID}}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.End(ctx, userID, ports.EndFocusRequest{Confirmed: true}); err != nil {
		t.Fatalf("End: %v", err)
	}

	stats, err := svc.Finish(ctx, userID, ports.FinishFocusRequest{MarkComplete: true})
	if err != nil {
		t.Fatalf("Finish must swallow the persistence error, got %v", err)
	}
	if stats == nil {
		t.Fatal("stats must be returned even when persistence fails")
	}
}

func TestFocusServiceTrips(t *testing.T) {
	svc, _, _, _ := newFocusFixture()

	trips := svc.Trips()
	if len(trips) != 4 {
		t.Fatalf("trips = %d, want 4", len(trips))
	}
}
