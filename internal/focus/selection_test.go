package focus

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
)

func taskDue(due *time.Time, status entities.TaskStatus) *entities.Task {
	return &entities.Task{
		ID:      uuid.New(),
		Title:   "task",
		Status:  status,
		DueDate: due,
	}
}

func TestPickerFiltersSelectableTasks(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	today := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	undated := taskDue(nil, entities.TaskStatusPending)
	dueToday := taskDue(&today, entities.TaskStatusPending)
	dueTomorrow := taskDue(&tomorrow, entities.TaskStatusPending)
	completed := taskDue(nil, entities.TaskStatusCompleted)
	archived := taskDue(&today, entities.TaskStatusArchived)

	p := NewPicker([]*entities.Task{undated, dueToday, dueTomorrow, completed, archived}, now)

	pool := p.Selectable()
	if len(pool) != 2 {
		t.Fatalf("selectable count = %d, want 2", len(pool))
	}
	if pool[0].ID != undated.ID || pool[1].ID != dueToday.ID {
		t.Fatalf("selectable pool = %v, want undated then due-today", pool)
	}
}

func TestPickerToggleCapsAtThree(t *testing.T) {
	now := time.Now()
	tasks := []*entities.Task{
		taskDue(nil, entities.TaskStatusPending),
		taskDue(nil, entities.TaskStatusPending),
		taskDue(nil, entities.TaskStatusPending),
		taskDue(nil, entities.TaskStatusPending),
	}
	p := NewPicker(tasks, now)

	for i := 0; i < 3; i++ {
		if !p.Toggle(tasks[i].ID) {
			t.Fatalf("selecting task %d should succeed", i)
		}
	}

	// Fourth selection is silently ignored.
	if p.Toggle(tasks[3].ID) {
		t.Fatal("fourth selection should be a no-op")
	}
	if got := p.SelectedCount(); got != 3 {
		t.Fatalf("selected count = %d, want 3", got)
	}

	// Deselecting works at the cap; then the slot reopens.
	if !p.Toggle(tasks[0].ID) {
		t.Fatal("deselecting at the cap should succeed")
	}
	if !p.Toggle(tasks[3].ID) {
		t.Fatal("selecting into the freed slot should succeed")
	}
}

func TestPickerToggleUnknownTask(t *testing.T) {
	p := NewPicker([]*entities.Task{taskDue(nil, entities.TaskStatusPending)}, time.Now())

	if p.Toggle(uuid.New()) {
		t.Fatal("toggling a task outside the pool should be a no-op")
	}
}

func TestPickerConfirm(t *testing.T) {
	now := time.Now()
	tasks := []*entities.Task{
		taskDue(nil, entities.TaskStatusPending),
		taskDue(nil, entities.TaskStatusPending),
	}
	p := NewPicker(tasks, now)

	if _, err := p.Confirm(); err != entities.ErrNoTasksSelected {
		t.Fatalf("confirm with empty selection = %v, want ErrNoTasksSelected", err)
	}

	// Selection order, not pool order.
	p.Toggle(tasks[1].ID)
	p.Toggle(tasks[0].ID)

	selected, err := p.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(selected) != 2 || selected[0].ID != tasks[1].ID || selected[1].ID != tasks[0].ID {
		t.Fatalf("confirmed order wrong: %v", selected)
	}
}

func TestPlanSession(t *testing.T) {
	tasks := []*entities.Task{taskDue(nil, entities.TaskStatusPending)}

	tests := []struct {
		name    string
		tasks   []*entities.Task
		tripID  string
		wantErr error
		hasTrip bool
	}{
		{name: "countdown", tasks: tasks, tripID: "earth-moon", hasTrip: true},
		{name: "count-up", tasks: tasks, tripID: ""},
		{name: "unknown trip", tasks: tasks, tripID: "earth-pluto", wantErr: entities.ErrUnknownTrip},
		{name: "no tasks", tasks: nil, tripID: "earth-moon", wantErr: entities.ErrNoTasksSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSession(tt.tasks, tt.tripID)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.hasTrip != (plan.Trip != nil) {
				t.Fatalf("trip presence = %v, want %v", plan.Trip != nil, tt.hasTrip)
			}
		})
	}
}
