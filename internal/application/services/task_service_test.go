package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

type fakeTaskRepo struct {
	tasks     map[uuid.UUID]*entities.Task
	statusErr map[uuid.UUID]error
}

func newFakeTaskRepo(tasks ...*entities.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{
		tasks:     make(map[uuid.UUID]*entities.Task),
		statusErr: make(map[uuid.UUID]error),
	}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) GetForUser(_ context.Context, userID uuid.UUID, _ ports.TaskFilter) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) GetForList(_ context.Context, listID uuid.UUID) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range r.tasks {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *entities.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.TaskStatus) error {
	if err := r.statusErr[id]; err != nil {
		return err
	}
	task, ok := r.tasks[id]
	if !ok {
		return entities.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) Count(_ context.Context, userID uuid.UUID, _ ports.TaskFilter) (int64, error) {
	return int64(len(r.tasks)), nil
}

type fakeListRepo struct {
	lists map[uuid.UUID]*entities.TaskList
}

func newFakeListRepo(lists ...*entities.TaskList) *fakeListRepo {
	r := &fakeListRepo{lists: make(map[uuid.UUID]*entities.TaskList)}
	for _, l := range lists {
		r.lists[l.ID] = l
	}
	return r
}

func (r *fakeListRepo) Create(_ context.Context, list *entities.TaskList) error {
	r.lists[list.ID] = list
	return nil
}

func (r *fakeListRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.TaskList, error) {
	list, ok := r.lists[id]
	if !ok {
		return nil, entities.ErrListNotFound
	}
	return list, nil
}

func (r *fakeListRepo) GetForUser(_ context.Context, userID uuid.UUID) ([]*entities.TaskList, error) {
	var out []*entities.TaskList
	for _, l := range r.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListRepo) Update(_ context.Context, list *entities.TaskList) error {
	r.lists[list.ID] = list
	return nil
}

func (r *fakeListRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.lists, id)
	return nil
}

var taskNow = time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

func newTaskServiceFixture(taskRepo *fakeTaskRepo, listRepo *fakeListRepo) *TaskService {
	return NewTaskService(taskRepo, listRepo, newTestClock(taskNow), logger.NewNop())
}

func TestGetSelectableTasks(t *testing.T) {
	userID := uuid.New()
	listID := uuid.New()
	today := taskNow.Add(-3 * time.Hour)
	tomorrow := taskNow.AddDate(0, 0, 1)

	undated := &entities.Task{ID: uuid.New(), UserID: userID, ListID: listID, Status: entities.TaskStatusPending}
	dueToday := &entities.Task{ID: uuid.New(), UserID: userID, ListID: listID, Status: entities.TaskStatusPending, DueDate: &today}
	dueTomorrow := &entities.Task{ID: uuid.New(), UserID: userID, ListID: listID, Status: entities.TaskStatusPending, DueDate: &tomorrow}
	done := &entities.Task{ID: uuid.New(), UserID: userID, ListID: listID, Status: entities.TaskStatusCompleted}

	svc := newTaskServiceFixture(newFakeTaskRepo(undated, dueToday, dueTomorrow, done), newFakeListRepo())

	tasks, err := svc.GetSelectableTasks(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetSelectableTasks: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("selectable = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.ID == dueTomorrow.ID || task.ID == done.ID {
			t.Fatalf("task %v should not be selectable", task.ID)
		}
	}
}

func TestCreateTaskRequiresListOwnership(t *testing.T) {
	owner := uuid.New()
	list := &entities.TaskList{ID: uuid.New(), UserID: owner, Title: "Inbox"}
	svc := newTaskServiceFixture(newFakeTaskRepo(), newFakeListRepo(list))

	_, err := svc.CreateTask(context.Background(), uuid.New(), ports.CreateTaskRequest{
		ListID: list.ID,
		Title:  "intruder task",
	})
	if !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	task, err := svc.CreateTask(context.Background(), owner, ports.CreateTaskRequest{
		ListID: list.ID,
		Title:  "owner task",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Priority != entities.PriorityMedium {
		t.Fatalf("default priority = %s, want medium", task.Priority)
	}
	if task.Status != entities.TaskStatusPending {
		t.Fatalf("new task status = %s, want pending", task.Status)
	}
}

func TestToggleComplete(t *testing.T) {
	userID := uuid.New()
	task := &entities.Task{ID: uuid.New(), UserID: userID, Status: entities.TaskStatusPending}
	repo := newFakeTaskRepo(task)
	svc := newTaskServiceFixture(repo, newFakeListRepo())

	got, err := svc.ToggleComplete(context.Background(), userID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if got.Status != entities.TaskStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}

	got, err = svc.ToggleComplete(context.Background(), userID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete back: %v", err)
	}
	if got.Status != entities.TaskStatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestToggleCompleteArchivedTask(t *testing.T) {
	userID := uuid.New()
	task := &entities.Task{ID: uuid.New(), UserID: userID, Status: entities.TaskStatusArchived}
	svc := newTaskServiceFixture(newFakeTaskRepo(task), newFakeListRepo())

	if _, err := svc.ToggleComplete(context.Background(), userID, task.ID); !errors.Is(err, entities.ErrTaskArchived) {
		t.Fatalf("err = %v, want ErrTaskArchived", err)
	}
}

func TestToggleCompleteOtherUsersTask(t *testing.T) {
	task := &entities.Task{ID: uuid.New(), UserID: uuid.New(), Status: entities.TaskStatusPending}
	svc := newTaskServiceFixture(newFakeTaskRepo(task), newFakeListRepo())

	if _, err := svc.ToggleComplete(context.Background(), uuid.New(), task.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestMarkCompletedToleratesPartialFailure(t *testing.T) {
	userID := uuid.New()
	good := &entities.Task{ID: uuid.New(), UserID: userID, Status: entities.TaskStatusPending}
	bad := &entities.Task{ID: uuid.New(), UserID: userID, Status: entities.TaskStatusPending}

	repo := newFakeTaskRepo(good, bad)
	repo.statusErr[bad.ID] = errors.New("deadlock detected")
	svc := newTaskServiceFixture(repo, newFakeListRepo())

	err := svc.MarkCompleted(context.Background(), userID, []uuid.UUID{bad.ID, good.ID})
	if err == nil {
		t.Fatal("partial failure should surface an error")
	}

	// The failing task must not block the one after it.
	if good.Status != entities.TaskStatusCompleted {
		t.Fatalf("good task status = %s, want completed", good.Status)
	}
	if bad.Status != entities.TaskStatusPending {
		t.Fatalf("bad task status = %s, want pending", bad.Status)
	}
}
