package focus

import (
	"context"
	"sync"
	"time"

	"github.com/odysseyapp/core/internal/ports"
)

// fakeClock drives the session deterministically: Tick invokes every live
// repeating callback once, FireTimers fires pending one-shots.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeHandle
	timers  []*fakeHandle
}

type fakeHandle struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (h *fakeHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
}

func (h *fakeHandle) fire() {
	h.mu.Lock()
	stopped := h.stopped
	fn := h.fn
	h.mu.Unlock()
	if !stopped {
		fn()
	}
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Schedule(_ time.Duration, fn func()) ports.TickerHandle {
	h := &fakeHandle{fn: fn}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers = append(c.tickers, h)
	return h
}

func (c *fakeClock) After(_ time.Duration, fn func()) ports.TickerHandle {
	h := &fakeHandle{fn: fn}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, h)
	return h
}

// Tick delivers n ticks to every live repeating callback.
func (c *fakeClock) Tick(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		handles := make([]*fakeHandle, len(c.tickers))
		copy(handles, c.tickers)
		c.mu.Unlock()

		for _, h := range handles {
			h.fire()
		}
	}
}

// FireTimers fires every pending one-shot timer.
func (c *fakeClock) FireTimers() {
	c.mu.Lock()
	handles := c.timers
	c.timers = nil
	c.mu.Unlock()

	for _, h := range handles {
		h.fire()
	}
}

// confirmerFunc adapts a function to the EndConfirmer interface.
type confirmerFunc func() bool

func (f confirmerFunc) ConfirmEnd(_ context.Context) bool {
	return f()
}
