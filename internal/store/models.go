package store

import "time"

type Activity struct {
	ID        string
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionLogEntry is one finished (completed or stopped) focus session.
type SessionLogEntry struct {
	ID          string
	ActivityID  string
	MusicChoice string
	StartedAt   time.Time
	EndedAt     time.Time
	PlannedMS   int64
	ActualMS    int64
	Completed   bool
}

// LogFilter is used to filter session log entries in queries.
type LogFilter struct {
	ActivityID string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// DailyFocus represents aggregated focus time per day.
type DailyFocus struct {
	Date         string
	SessionCount int
	TotalMS      int64
	CompletedNum int
}
