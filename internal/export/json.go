package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"focusd/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Sessions   []jsonEntry `json:"sessions"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Activity    string `json:"activity"`
	ActivityID  string `json:"activity_id,omitempty"`
	MusicChoice string `json:"music_choice,omitempty"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at"`
	PlannedSec  int64  `json:"planned_seconds"`
	ActualSec   int64  `json:"actual_seconds"`
	Actual      string `json:"actual"`
	Completed   bool   `json:"completed"`
}

func ToJSON(entries []store.SessionLogEntry, activities map[string]*store.Activity, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		export.Sessions = append(export.Sessions, jsonEntry{
			ID:          e.ID,
			Activity:    activityName(activities, e.ActivityID),
			ActivityID:  e.ActivityID,
			MusicChoice: e.MusicChoice,
			StartedAt:   e.StartedAt.Local().Format(time.RFC3339),
			EndedAt:     e.EndedAt.Local().Format(time.RFC3339),
			PlannedSec:  e.PlannedMS / 1000,
			ActualSec:   e.ActualMS / 1000,
			Actual:      formatDuration(e.ActualMS / 1000),
			Completed:   e.Completed,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
