package tui

import (
	"fmt"
	"time"

	"focusd/internal/session"
	"focusd/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewStats
	viewActivities
)

var viewNames = []string{"Timer", "Stats", "Activities"}

// --- Messages ---

type tickMsg time.Time

// bgTickMsg fires on the background evaluation cadence, independent of the
// 1-second display tick.
type bgTickMsg time.Time

type sessionStartedMsg struct {
	snap *session.Snapshot
}

type sessionStoppedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type activitiesDataMsg struct {
	activities []store.Activity
}

type statsDataMsg struct {
	days []store.DailyFocus
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatClock renders a countdown as MM:SS, rolling to H:MM:SS past an hour.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatHours(ms int64) string {
	h := float64(ms) / 3600_000
	return fmt.Sprintf("%.1fh", h)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
