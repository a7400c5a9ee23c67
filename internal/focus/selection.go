package focus

import (
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/domain/trips"
)

// MaxSelectedTasks is the hard cap on tasks attached to one focus session.
const MaxSelectedTasks = 3

// Picker implements the task selection stage. It filters a user's task pool
// down to selectable tasks (pending, and either undated or due today) and
// tracks toggle-selection in selection order, capped at MaxSelectedTasks.
type Picker struct {
	pool     []*entities.Task
	selected []uuid.UUID
}

// NewPicker builds a picker over the selectable subset of tasks as of now.
func NewPicker(tasks []*entities.Task, now time.Time) *Picker {
	pool := make([]*entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsSelectable(now) {
			pool = append(pool, t)
		}
	}
	return &Picker{pool: pool}
}

// Selectable returns the tasks available for selection.
func (p *Picker) Selectable() []*entities.Task {
	out := make([]*entities.Task, len(p.pool))
	copy(out, p.pool)
	return out
}

// SelectedCount returns the number of currently selected tasks.
func (p *Picker) SelectedCount() int {
	return len(p.selected)
}

// IsSelected reports whether the task id is currently selected.
func (p *Picker) IsSelected(id uuid.UUID) bool {
	for _, s := range p.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Toggle selects or deselects a task. Selecting a fourth task while three
// are already selected is silently ignored, as is any id outside the
// selectable pool. Deselecting is always allowed. It reports whether the
// selection changed.
func (p *Picker) Toggle(id uuid.UUID) bool {
	for i, s := range p.selected {
		if s == id {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			return true
		}
	}
	if len(p.selected) >= MaxSelectedTasks {
		return false
	}
	if !p.inPool(id) {
		return false
	}
	p.selected = append(p.selected, id)
	return true
}

func (p *Picker) inPool(id uuid.UUID) bool {
	for _, t := range p.pool {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Confirm finalizes the selection stage and returns the selected tasks in
// selection order. Confirming an empty selection is a guarded error.
func (p *Picker) Confirm() ([]*entities.Task, error) {
	if len(p.selected) == 0 {
		return nil, entities.ErrNoTasksSelected
	}
	out := make([]*entities.Task, 0, len(p.selected))
	for _, id := range p.selected {
		for _, t := range p.pool {
			if t.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

// Plan is the validated output of the two selection stages: the tasks to
// focus on and, for countdown mode, the chosen trip. A nil trip means the
// session runs open-ended in count-up mode.
type Plan struct {
	Tasks []*entities.Task
	Trip  *trips.Trip
}

// PlanSession implements the trip selection stage: it pairs the confirmed
// tasks with a catalog trip. An empty tripID skips the stage and yields a
// count-up plan.
func PlanSession(tasks []*entities.Task, tripID string) (*Plan, error) {
	if len(tasks) == 0 {
		return nil, entities.ErrNoTasksSelected
	}
	if len(tasks) > MaxSelectedTasks {
		return nil, entities.ErrTooManyTasks
	}

	plan := &Plan{Tasks: tasks}
	if tripID != "" {
		trip, ok := trips.ByID(tripID)
		if !ok {
			return nil, entities.ErrUnknownTrip
		}
		plan.Trip = &trip
	}
	return plan, nil
}
