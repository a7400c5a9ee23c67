// Package focus implements the focus session core: the task and trip
// selection stages and the session state machine that drives the countdown
// or count-up timer, live task completion and post-end reconciliation.
package focus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/domain/trips"
	"github.com/odysseyapp/core/internal/ports"
)

// State represents the lifecycle state of a focus session
type State int

const (
	// StateRunning means the session timer is actively ticking
	StateRunning State = iota
	// StatePaused means the user paused the timer; no session time passes
	StatePaused
	// StateEnded is terminal; a new session requires a new Session instance
	StateEnded
)

// String returns a human-readable string for the state
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason records why a session reached its terminal state
type EndReason int

const (
	// EndReasonNatural means the countdown reached zero
	EndReasonNatural EndReason = iota
	// EndReasonUser means the user ended early after confirming
	EndReasonUser
	// EndReasonTasksDone means every selected task was completed live
	EndReasonTasksDone
)

// String returns a human-readable string for the end reason
func (r EndReason) String() string {
	switch r {
	case EndReasonNatural:
		return "natural"
	case EndReasonUser:
		return "user"
	case EndReasonTasksDone:
		return "tasks_done"
	default:
		return "unknown"
	}
}

// Config carries the session tunables
type Config struct {
	// TickInterval is the timer granularity; one session-second per tick.
	TickInterval time.Duration
	// GraceDelay is the debounce before auto-ending once all selected
	// tasks are complete, so the completion animation can play out.
	GraceDelay time.Duration
}

// DefaultConfig returns the standard session tunables
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second,
		GraceDelay:   500 * time.Millisecond,
	}
}

// Summary is emitted when a session is finished and carries what the
// persistence layer needs. ConsumedSeconds counts only time spent running;
// paused intervals are excluded.
type Summary struct {
	StartedAt        time.Time
	EndedAt          time.Time
	ConsumedSeconds  int
	CompletedTaskIDs []uuid.UUID
	Trip             *trips.Trip
	TaskCount        int
}

// Session is the focus session state machine. It is created in the running
// state with 1-3 selected tasks and an optional trip; with a trip it counts
// down from the trip duration and ends naturally at zero, without one it
// counts up open-ended. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	cfg       Config
	clock     ports.Clock
	confirmer ports.EndConfirmer

	tasks []*entities.Task
	trip  *trips.Trip

	state     State
	endReason EndReason
	startedAt time.Time
	endedAt   time.Time

	// consumed counts ticks spent in StateRunning. For countdown mode the
	// remaining time is always derived as duration-consumed rather than
	// decremented in place.
	consumed  int
	completed map[uuid.UUID]bool

	ticker ports.TickerHandle
	grace  ports.TickerHandle

	onEnded func(EndReason)
}

// NewSession validates the plan and starts a session in the running state.
// The first tick fires one TickInterval after creation.
func NewSession(plan *Plan, clock ports.Clock, confirmer ports.EndConfirmer, cfg Config, onEnded func(EndReason)) (*Session, error) {
	if len(plan.Tasks) == 0 {
		return nil, entities.ErrNoTasksSelected
	}
	if len(plan.Tasks) > MaxSelectedTasks {
		return nil, entities.ErrTooManyTasks
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	s := &Session{
		cfg:       cfg,
		clock:     clock,
		confirmer: confirmer,
		tasks:     plan.Tasks,
		trip:      plan.Trip,
		state:     StateRunning,
		startedAt: clock.Now(),
		completed: make(map[uuid.UUID]bool, len(plan.Tasks)),
		onEnded:   onEnded,
	}
	s.ticker = clock.Schedule(cfg.TickInterval, s.tick)
	return s, nil
}

// tick advances session time by one second. Ticks that race a pause or end
// are dropped; no session time passes outside StateRunning.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}

	s.consumed++
	if s.trip != nil && s.consumed >= s.trip.DurationSeconds {
		s.endLocked(EndReasonNatural)
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Trip returns the chosen trip, or nil in count-up mode
func (s *Session) Trip() *trips.Trip {
	return s.trip
}

// Tasks returns the selected tasks in selection order
func (s *Session) Tasks() []*entities.Task {
	out := make([]*entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// StartedAt returns when the session was created
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// ConsumedSeconds returns the seconds spent running so far
func (s *Session) ConsumedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// ElapsedSeconds is the count-up reading; it equals ConsumedSeconds.
func (s *Session) ElapsedSeconds() int {
	return s.ConsumedSeconds()
}

// RemainingSeconds returns the countdown reading, or 0 in count-up mode.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *Session) remainingLocked() int {
	if s.trip == nil {
		return 0
	}
	r := s.trip.DurationSeconds - s.consumed
	if r < 0 {
		return 0
	}
	return r
}

// RemainingDistanceKm linearly interpolates the simulated distance left:
// floor(remaining/duration * distance). It is re-derived on every call so
// rounding never compounds. Count-up sessions have no distance.
func (s *Session) RemainingDistanceKm() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trip == nil {
		return 0
	}
	r := int64(s.remainingLocked())
	return r * s.trip.DistanceKm / int64(s.trip.DurationSeconds)
}

// Pause stops the ticker. Pausing is a no-op outside StateRunning. The
// ticker handle is cancelled outright so no tick can fire while paused.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	s.stopTickerLocked()
	s.state = StatePaused
}

// Resume restarts the ticker from the frozen value; the next tick fires a
// full interval after the resume, not relative to the original schedule.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return
	}
	s.state = StateRunning
	s.ticker = s.clock.Schedule(s.cfg.TickInterval, s.tick)
}

// RequestEnd asks the confirmer whether to end the session early. On an
// affirmative answer the session ends immediately; on decline it stays in
// its prior state. It reports whether the session is now ended.
func (s *Session) RequestEnd(ctx context.Context) bool {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	// The confirmation prompt may block on the user; never hold the lock
	// across it or ticks would stall.
	if s.confirmer != nil && !s.confirmer.ConfirmEnd(ctx) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEnded {
		s.endLocked(EndReasonUser)
	}
	return true
}

// CompleteTask marks one selected task complete during the run. Ids outside
// the selected set are ignored, which keeps completedTaskIds a subset of
// the selection by construction. Completing the last remaining task
// schedules an auto-end after the grace delay.
func (s *Session) CompleteTask(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return false
	}
	if !s.isSelectedLocked(id) || s.completed[id] {
		return false
	}
	s.completed[id] = true

	if len(s.completed) == len(s.tasks) && s.grace == nil {
		s.grace = s.clock.After(s.cfg.GraceDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.state != StateEnded {
				s.endLocked(EndReasonTasksDone)
			}
		})
	}
	return true
}

// ToggleCompleted edits the completed set during post-end reconciliation.
// It is only honored once the session has ended.
func (s *Session) ToggleCompleted(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnded {
		return false
	}
	if !s.isSelectedLocked(id) {
		return false
	}
	if s.completed[id] {
		delete(s.completed, id)
	} else {
		s.completed[id] = true
	}
	return true
}

// CompletedTaskIDs returns the completed set in selection order.
func (s *Session) CompletedTaskIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedLocked()
}

func (s *Session) completedLocked() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.completed))
	for _, t := range s.tasks {
		if s.completed[t.ID] {
			out = append(out, t.ID)
		}
	}
	return out
}

// EndReason returns why the session ended. Only meaningful once ended.
func (s *Session) EndReason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endReason
}

// Finish concludes a terminated session. With markComplete the summary
// carries the reconciled completed task ids; without it the ids are empty
// and task statuses are left untouched by the caller.
func (s *Session) Finish(markComplete bool) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnded {
		return nil, entities.ErrSessionNotEnded
	}

	summary := &Summary{
		StartedAt:       s.startedAt,
		EndedAt:         s.endedAt,
		ConsumedSeconds: s.consumed,
		Trip:            s.trip,
		TaskCount:       len(s.tasks),
	}
	if markComplete {
		summary.CompletedTaskIDs = s.completedLocked()
	} else {
		summary.CompletedTaskIDs = []uuid.UUID{}
	}
	return summary, nil
}

func (s *Session) isSelectedLocked(id uuid.UUID) bool {
	for _, t := range s.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// endLocked transitions to the terminal state and cancels every pending
// timer so nothing can fire into an ended session.
func (s *Session) endLocked(reason EndReason) {
	s.stopTickerLocked()
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
	s.state = StateEnded
	s.endReason = reason
	s.endedAt = s.clock.Now()

	if s.onEnded != nil {
		go s.onEnded(reason)
	}
}

func (s *Session) stopTickerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
