package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"focusd/internal/clock"
	"focusd/internal/notify"
	"focusd/internal/store"
)

// AlarmEngine is the completion feedback chain. Play never fails; it reports
// whether any layer delivered.
type AlarmEngine interface {
	PlayCompletion(ctx context.Context) (anySucceeded bool)
	Stop()
}

// ActivityDirectory resolves activity IDs for notification text. Lookups are
// best-effort; failures fall back to a generic label.
type ActivityDirectory interface {
	GetActivity(id string) (*store.Activity, error)
}

// History receives finished sessions. Append failures are logged, never
// allowed to block session teardown.
type History interface {
	AppendSession(e store.SessionLogEntry) error
}

const fallbackLabel = "Focus Session"

// Snapshot is a read-only view of the active session for display. UI code
// renders snapshots; it never mutates session state directly.
type Snapshot struct {
	ID          string        `json:"id"`
	ActivityID  string        `json:"activity_id,omitempty"`
	MusicChoice string        `json:"music_choice,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Remaining   time.Duration `json:"remaining"`
	Percent     float64       `json:"percent"`
	Paused      bool          `json:"paused"`
}

// Deps wires the controller. Repo and Clock are required; the rest default
// to inert implementations.
type Deps struct {
	Repo       *Repository
	Clock      clock.Clock
	Notifier   notify.Notifier
	Alarm      AlarmEngine
	Activities ActivityDirectory
	History    History
}

// Controller owns every transition of the session state machine:
// NoSession → Running ⇄ Paused → Completing → NoSession. It keeps no
// cross-invocation state in memory; every operation is read-modify-persist
// against the repository, so overlapping invocations converge.
type Controller struct {
	repo       *Repository
	clock      clock.Clock
	notifier   notify.Notifier
	alarm      AlarmEngine
	activities ActivityDirectory
	history    History

	// OnChange, when set, receives a snapshot after every state transition
	// (nil once the session is gone). Used by the status server to push
	// updates to connected clients.
	OnChange func(snap *Snapshot)
}

func NewController(d Deps) *Controller {
	if d.Repo == nil {
		panic("session: Repo is required")
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewNoop()
	}
	return &Controller{
		repo:       d.Repo,
		clock:      d.Clock,
		notifier:   d.Notifier,
		alarm:      d.Alarm,
		activities: d.Activities,
		history:    d.History,
	}
}

// Start validates the duration, persists a fresh record and renders an
// immediate progress notification so the user sees a live timer before the
// first background tick. Starting over an active session is rejected.
func (c *Controller) Start(duration time.Duration, activityID, musicChoice string) (*Snapshot, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	existing, err := c.repo.Load()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSessionActive
	}

	now := c.clock.Now()
	rec := &Record{
		ID:          uuid.NewString(),
		ActivityID:  activityID,
		MusicChoice: musicChoice,
		StartTime:   now.UnixMilli(),
		DurationMS:  duration.Milliseconds(),
	}
	if err := c.repo.Save(rec); err != nil {
		return nil, err
	}

	c.renderProgress(rec, now)
	snap := c.snapshot(rec, now)
	c.emit(snap)
	return snap, nil
}

// Pause freezes remaining time. Pausing an already-paused session is a no-op.
func (c *Controller) Pause() (*Snapshot, error) {
	rec, err := c.repo.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoSession
	}

	now := c.clock.Now()
	if !rec.IsPaused {
		nowMS := now.UnixMilli()
		rec.RemainingAtPause = rec.RemainingMS(nowMS)
		rec.IsPaused = true
		rec.PausedAt = nowMS
		if err := c.repo.Save(rec); err != nil {
			return nil, err
		}
		c.renderProgress(rec, now)
	}

	snap := c.snapshot(rec, now)
	c.emit(snap)
	return snap, nil
}

// Resume rewrites the time anchor so that remaining time immediately after
// resume equals the snapshot taken at pause: the pause interval cancels out
// exactly. Resuming a running session is a no-op.
func (c *Controller) Resume() (*Snapshot, error) {
	rec, err := c.repo.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoSession
	}

	now := c.clock.Now()
	if rec.IsPaused {
		nowMS := now.UnixMilli()
		rec.StartTime = nowMS - (rec.DurationMS - rec.RemainingAtPause)
		rec.IsPaused = false
		rec.PausedAt = 0
		rec.RemainingAtPause = 0
		if err := c.repo.Save(rec); err != nil {
			return nil, err
		}
		c.renderProgress(rec, now)
	}

	snap := c.snapshot(rec, now)
	c.emit(snap)
	return snap, nil
}

// Stop tears down the session unconditionally: record, dedup flag, rendered
// notification, in-flight alarm playback. Idempotent; stopping with no
// active session is a no-op.
func (c *Controller) Stop() error {
	if c.alarm != nil {
		c.alarm.Stop()
	}

	rec, err := c.repo.Load()
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	now := c.clock.Now()
	c.appendHistory(rec, now, false)
	if err := c.repo.Clear(rec); err != nil {
		return err
	}
	if err := c.notifier.Clear(); err != nil {
		log.Printf("session: notification clear failed: %v", err)
	}
	c.emit(nil)
	return nil
}

// Current returns a display snapshot, or nil when no session is active.
// A storage read failure degrades to "no session" rather than an error the
// UI would have to special-case.
func (c *Controller) Current() *Snapshot {
	rec, err := c.repo.Load()
	if err != nil {
		log.Printf("session: read failed, treating as no session: %v", err)
		return nil
	}
	if rec == nil {
		return nil
	}
	return c.snapshot(rec, c.clock.Now())
}

func (c *Controller) snapshot(rec *Record, now time.Time) *Snapshot {
	nowMS := now.UnixMilli()
	return &Snapshot{
		ID:          rec.ID,
		ActivityID:  rec.ActivityID,
		MusicChoice: rec.MusicChoice,
		StartedAt:   time.UnixMilli(rec.StartTime).UTC(),
		Duration:    time.Duration(rec.DurationMS) * time.Millisecond,
		Remaining:   time.Duration(rec.RemainingMS(nowMS)) * time.Millisecond,
		Percent:     rec.ElapsedRatio(nowMS) * 100,
		Paused:      rec.IsPaused,
	}
}

func (c *Controller) emit(snap *Snapshot) {
	if c.OnChange != nil {
		c.OnChange(snap)
	}
}

// activityLabel resolves the notification title, falling back to a generic
// label on any lookup failure.
func (c *Controller) activityLabel(rec *Record) string {
	if rec.ActivityID == "" || c.activities == nil {
		return fallbackLabel
	}
	a, err := c.activities.GetActivity(rec.ActivityID)
	if err != nil || a == nil || a.Name == "" {
		return fallbackLabel
	}
	return a.Name
}

// renderProgress refreshes the live progress notification. Uses now at time
// of render so a later tick never shows staler time than already presented.
func (c *Controller) renderProgress(rec *Record, now time.Time) {
	nowMS := now.UnixMilli()
	remaining := time.Duration(rec.RemainingMS(nowMS)) * time.Millisecond
	pct := int(rec.ElapsedRatio(nowMS) * 100)

	body := fmt.Sprintf("%s remaining · %d%% complete", formatRemaining(remaining), pct)
	if rec.IsPaused {
		body = fmt.Sprintf("Paused · %s remaining", formatRemaining(remaining))
	}

	if err := c.notifier.Send(notify.Payload{
		Title:  c.activityLabel(rec),
		Body:   body,
		Silent: true,
	}); err != nil {
		log.Printf("session: progress render failed: %v", err)
	}
}

func (c *Controller) sendMilestone(rec *Record) {
	if err := c.notifier.Send(notify.Payload{
		Title: c.activityLabel(rec),
		Body:  "10% in — momentum is on your side. Keep going!",
	}); err != nil {
		log.Printf("session: milestone notification failed: %v", err)
	}
}

func (c *Controller) appendHistory(rec *Record, now time.Time, completed bool) {
	if c.history == nil {
		return
	}
	nowMS := now.UnixMilli()
	actual := rec.DurationMS - rec.RemainingMS(nowMS)
	if completed {
		actual = rec.DurationMS
	}
	err := c.history.AppendSession(store.SessionLogEntry{
		ID:          rec.ID,
		ActivityID:  rec.ActivityID,
		MusicChoice: rec.MusicChoice,
		StartedAt:   time.UnixMilli(rec.StartTime).UTC(),
		EndedAt:     now.UTC(),
		PlannedMS:   rec.DurationMS,
		ActualMS:    actual,
		Completed:   completed,
	})
	if err != nil {
		log.Printf("session: history append failed: %v", err)
	}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
