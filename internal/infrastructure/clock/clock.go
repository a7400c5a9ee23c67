// Package clock provides the wall-clock implementation of the ports.Clock
// collaborator used by the focus session state machine.
package clock

import (
	"time"

	"github.com/odysseyapp/core/internal/ports"
)

// Real is the production clock backed by the time package.
type Real struct{}

// New returns the wall clock.
func New() Real {
	return Real{}
}

// Now returns the current local time.
func (Real) Now() time.Time {
	return time.Now()
}

// Schedule fires fn every interval until the handle is stopped.
func (Real) Schedule(interval time.Duration, fn func()) ports.TickerHandle {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return &tickerHandle{ticker: t, done: done}
}

// After fires fn once after d unless stopped first.
func (Real) After(d time.Duration, fn func()) ports.TickerHandle {
	return timerHandle{timer: time.AfterFunc(d, fn)}
}

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

func (h *tickerHandle) Stop() {
	if h.closed {
		return
	}
	h.closed = true
	h.ticker.Stop()
	close(h.done)
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Stop() {
	h.timer.Stop()
}
