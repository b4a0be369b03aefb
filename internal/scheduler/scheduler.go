// Package scheduler drives periodic background re-evaluation of the active
// session. It stands in for the host OS's task scheduler: it promises the
// session core nothing beyond "invoked eventually", and applies backoff when
// a tick reports failure so a broken store is not hammered.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"focusd/internal/session"
)

// Ticker is the entry point the runner invokes. Satisfied by
// *session.Controller.
type Ticker interface {
	OnBackgroundTick(ctx context.Context) session.TickOutcome
}

type Runner struct {
	ticker Ticker

	mu         sync.Mutex
	interval   time.Duration
	maxBackoff time.Duration
	backoff    time.Duration
}

func New(t Ticker, interval, maxBackoff time.Duration) *Runner {
	if maxBackoff < interval {
		maxBackoff = interval
	}
	return &Runner{
		ticker:     t,
		interval:   interval,
		maxBackoff: maxBackoff,
	}
}

// SetInterval adjusts the tick cadence; the next wait uses the new value.
// Called from the config watcher on live reload.
func (r *Runner) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.interval = d
	if r.maxBackoff < d {
		r.maxBackoff = d
	}
	r.mu.Unlock()
}

// Run ticks until ctx is cancelled. Failed ticks double the wait up to the
// backoff cap; any success resets it.
func (r *Runner) Run(ctx context.Context) {
	for {
		outcome := r.ticker.OnBackgroundTick(ctx)

		wait := r.next(outcome)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (r *Runner) next(outcome session.TickOutcome) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if outcome != session.TickFailed {
		r.backoff = 0
		return r.interval
	}

	if r.backoff == 0 {
		r.backoff = r.interval
	}
	r.backoff *= 2
	if r.backoff > r.maxBackoff {
		r.backoff = r.maxBackoff
	}
	log.Printf("scheduler: tick failed, backing off %v", r.backoff)
	return r.backoff
}
