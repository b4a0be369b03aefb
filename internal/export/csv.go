package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"focusd/internal/store"
)

func ToCSV(entries []store.SessionLogEntry, activities map[string]*store.Activity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Activity", "Started", "Ended", "Planned (s)", "Actual (s)", "Actual", "Completed", "Music"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.ID,
			activityName(activities, e.ActivityID),
			e.StartedAt.Local().Format(time.RFC3339),
			e.EndedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", e.PlannedMS/1000),
			fmt.Sprintf("%d", e.ActualMS/1000),
			formatDuration(e.ActualMS / 1000),
			fmt.Sprintf("%t", e.Completed),
			e.MusicChoice,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func activityName(activities map[string]*store.Activity, id string) string {
	if a, ok := activities[id]; ok {
		return a.Name
	}
	return "Unknown"
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
