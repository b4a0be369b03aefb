// Package session implements the persistent focus-session core: a single
// durable record anchored to wall-clock time, re-evaluated by background
// ticks that may arrive at any cadence. All state lives in the persisted
// record, so overlapping evaluations converge to the same outcome.
package session

import "time"

// Record is the single active session. Remaining time is always recomputed
// from StartTime, never counted down in memory, so it survives process death.
type Record struct {
	ID          string `json:"id"`
	ActivityID  string `json:"activity_id,omitempty"`
	MusicChoice string `json:"music_choice,omitempty"`

	// StartTime is the epoch-ms anchor from which elapsed time is computed
	// while running. Resume rewrites it so the pause interval cancels out.
	StartTime  int64 `json:"start_time_ms"`
	DurationMS int64 `json:"duration_ms"`

	IsPaused         bool  `json:"is_paused"`
	PausedAt         int64 `json:"paused_at_ms,omitempty"`
	RemainingAtPause int64 `json:"remaining_at_pause_ms,omitempty"`
}

// RemainingMS returns the milliseconds left at nowMS. Pure and idempotent:
// safe to call from any execution context.
func (r *Record) RemainingMS(nowMS int64) int64 {
	if r.IsPaused {
		return r.RemainingAtPause
	}
	rem := r.DurationMS - (nowMS - r.StartTime)
	if rem < 0 {
		return 0
	}
	return rem
}

func (r *Record) Remaining(now time.Time) time.Duration {
	return time.Duration(r.RemainingMS(now.UnixMilli())) * time.Millisecond
}

// ElapsedRatio reports progress in [0, 1]. Only meaningful while running;
// callers must not use it to advance a paused session.
func (r *Record) ElapsedRatio(nowMS int64) float64 {
	if r.IsPaused {
		elapsed := r.DurationMS - r.RemainingAtPause
		return clampRatio(float64(elapsed) / float64(r.DurationMS))
	}
	return clampRatio(float64(nowMS-r.StartTime) / float64(r.DurationMS))
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
