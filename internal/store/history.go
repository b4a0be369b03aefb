package store

import (
	"fmt"
	"time"
)

// AppendSession records one finished session in the log.
func (s *Store) AppendSession(e SessionLogEntry) error {
	completed := 0
	if e.Completed {
		completed = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO session_log (id, activity_id, music_choice, started_at, ended_at, planned_ms, actual_ms, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, nullIfEmpty(e.ActivityID), e.MusicChoice,
		e.StartedAt.UTC().Format(time.RFC3339), e.EndedAt.UTC().Format(time.RFC3339),
		e.PlannedMS, e.ActualMS, completed,
	)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (s *Store) ListSessions(f LogFilter) ([]SessionLogEntry, error) {
	query := `SELECT id, activity_id, music_choice, started_at, ended_at, planned_ms, actual_ms, completed
	          FROM session_log WHERE 1=1`
	var args []any

	if f.ActivityID != "" {
		query += ` AND activity_id = ?`
		args = append(args, f.ActivityID)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var entries []SessionLogEntry
	for rows.Next() {
		var e SessionLogEntry
		var activityID *string
		var startedAt, endedAt string
		var completed int
		if err := rows.Scan(&e.ID, &activityID, &e.MusicChoice, &startedAt, &endedAt, &e.PlannedMS, &e.ActualMS, &completed); err != nil {
			return nil, err
		}
		if activityID != nil {
			e.ActivityID = *activityID
		}
		e.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		e.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
		e.Completed = completed == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDailyFocus aggregates focus time per day over [from, to).
func (s *Store) GetDailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT substr(started_at, 1, 10) AS day,
		       COUNT(*),
		       COALESCE(SUM(actual_ms), 0),
		       COALESCE(SUM(completed), 0)
		FROM session_log
		WHERE started_at >= ? AND started_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.SessionCount, &d.TotalMS, &d.CompletedNum); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
