package session

import (
	"context"
	"log"
)

// TickOutcome is reported to the host scheduler for its retry/backoff
// bookkeeping.
type TickOutcome int

const (
	TickNoData TickOutcome = iota
	TickNewData
	TickFailed
)

func (o TickOutcome) String() string {
	switch o {
	case TickNewData:
		return "new-data"
	case TickFailed:
		return "failed"
	default:
		return "no-data"
	}
}

// OnBackgroundTick is the host-invoked entry point. The host gives no cadence
// guarantee and may deliver the same instant twice; every path here is safe
// under at-least-once invocation because the dedup flag and record deletion
// carry the idempotence, not any in-memory state.
func (c *Controller) OnBackgroundTick(ctx context.Context) TickOutcome {
	rec, err := c.repo.Load()
	if err != nil {
		// Unreadable state degrades to inert rather than poisoning the
		// host's retry budget.
		log.Printf("session: tick read failed, treating as no session: %v", err)
		return TickNoData
	}
	if rec == nil {
		return TickNoData
	}

	now := c.clock.Now()
	nowMS := now.UnixMilli()

	if rec.IsPaused {
		// Keep the rendered notification fresh; time is frozen.
		c.renderProgress(rec, now)
		return TickNewData
	}

	sent, err := c.repo.MilestoneSent(rec.ID)
	if err != nil {
		log.Printf("session: milestone flag read failed: %v", err)
		sent = false
	}

	switch evaluate(rec, nowMS, sent) {
	case ActionComplete:
		if err := c.complete(ctx, rec); err != nil {
			log.Printf("session: completion teardown failed: %v", err)
			return TickFailed
		}
		return TickNewData

	case ActionProgress:
		c.sendMilestone(rec)
		// Persist the flag immediately after dispatch so a duplicated
		// invocation observes it and stays quiet.
		if err := c.repo.MarkMilestone(rec.ID); err != nil {
			log.Printf("session: milestone flag write failed: %v", err)
			return TickFailed
		}
		c.emit(c.snapshot(rec, now))
		return TickNewData

	default:
		c.renderProgress(rec, now)
		c.emit(c.snapshot(rec, now))
		return TickNewData
	}
}

// complete runs the Completing transition exactly once: alarm playback, the
// history append, then record/flag deletion so any later tick sees no
// session and returns no-data instead of re-firing.
func (c *Controller) complete(ctx context.Context, rec *Record) error {
	if c.alarm != nil {
		if ok := c.alarm.PlayCompletion(ctx); !ok {
			log.Printf("session: every alarm layer degraded; session still cleared")
		}
	}

	c.appendHistory(rec, c.clock.Now(), true)

	if err := c.repo.Clear(rec); err != nil {
		return err
	}
	c.emit(nil)
	return nil
}
