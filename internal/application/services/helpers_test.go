package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/ports"
)

// testClock is a deterministic clock: Tick drives repeating callbacks,
// FireTimers fires pending one-shots.
type testClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*testHandle
	timers  []*testHandle
}

type testHandle struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (h *testHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
}

func (h *testHandle) fire() {
	h.mu.Lock()
	stopped := h.stopped
	fn := h.fn
	h.mu.Unlock()
	if !stopped {
		fn()
	}
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Schedule(_ time.Duration, fn func()) ports.TickerHandle {
	h := &testHandle{fn: fn}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers = append(c.tickers, h)
	return h
}

func (c *testClock) After(_ time.Duration, fn func()) ports.TickerHandle {
	h := &testHandle{fn: fn}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, h)
	return h
}

func (c *testClock) Tick(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		handles := make([]*testHandle, len(c.tickers))
		copy(handles, c.tickers)
		c.mu.Unlock()

		for _, h := range handles {
			h.fire()
		}
	}
}

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu   sync.Mutex
	rows []*entities.FocusSessionRecord
	err  error
}

func (r *fakeSessionRepo) Insert(_ context.Context, record *entities.FocusSessionRecord) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, record)
	return nil
}

func (r *fakeSessionRepo) GetForUser(_ context.Context, userID uuid.UUID) ([]*entities.FocusSessionRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.FocusSessionRecord
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.FocusSessionRecord, error) {
	rows, err := r.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []*entities.FocusSessionRecord
	for _, row := range rows {
		if !row.CreatedAt.Before(since) {
			out = append(out, row)
		}
	}
	return out, nil
}
