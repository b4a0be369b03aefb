package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"focusd/internal/store"
)

func sampleData() ([]store.SessionLogEntry, map[string]*store.Activity) {
	now := time.Now().UTC()

	entries := []store.SessionLogEntry{
		{
			ID:          "s1",
			ActivityID:  "a1",
			MusicChoice: "rain",
			StartedAt:   now.Add(-1 * time.Hour),
			EndedAt:     now,
			PlannedMS:   3600_000,
			ActualMS:    3600_000,
			Completed:   true,
		},
		{
			ID:         "s2",
			ActivityID: "a2",
			StartedAt:  now.Add(-30 * time.Minute),
			EndedAt:    now.Add(-20 * time.Minute),
			PlannedMS:  1800_000,
			ActualMS:   600_000,
			Completed:  false,
		},
		{
			ID:        "s3",
			StartedAt: now.Add(-10 * time.Minute),
			EndedAt:   now,
			PlannedMS: 600_000,
			ActualMS:  600_000,
			Completed: true,
		},
	}

	activities := map[string]*store.Activity{
		"a1": {ID: "a1", Name: "Deep Work", Color: "#FF0000"},
		"a2": {ID: "a2", Name: "Reading", Color: "#00FF00"},
	}

	return entries, activities
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	entries, activities := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(entries, activities, path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Activity", "Started", "Ended", "Planned (s)", "Actual (s)", "Actual", "Completed", "Music"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "s1" {
		t.Fatalf("ID = %q, want s1", row[0])
	}
	if row[1] != "Deep Work" {
		t.Fatalf("Activity = %q, want Deep Work", row[1])
	}
	if row[5] != "3600" {
		t.Fatalf("Actual (s) = %q, want 3600", row[5])
	}
	if row[6] != "01:00:00" {
		t.Fatalf("Actual = %q, want 01:00:00", row[6])
	}
	if row[7] != "true" {
		t.Fatalf("Completed = %q, want true", row[7])
	}
	if row[8] != "rain" {
		t.Fatalf("Music = %q, want rain", row[8])
	}

	// Entry without an activity falls back to Unknown.
	if records[3][1] != "Unknown" {
		t.Fatalf("expected 'Unknown' for missing activity, got %q", records[3][1])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	entries := []store.SessionLogEntry{
		{
			ID:         "s1",
			ActivityID: "a1",
			StartedAt:  now,
			EndedAt:    now,
			ActualMS:   60_000,
		},
	}
	activities := map[string]*store.Activity{
		"a1": {ID: "a1", Name: `Writing "Essays", daily`},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	err := ToCSV(entries, activities, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Writing "Essays", daily` {
		t.Fatalf("activity name mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	entries, activities := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(entries, activities, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(result.Sessions))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	e := result.Sessions[0]
	if e.ID != "s1" {
		t.Fatalf("ID = %q, want s1", e.ID)
	}
	if e.Activity != "Deep Work" {
		t.Fatalf("Activity = %q, want Deep Work", e.Activity)
	}
	if e.ActualSec != 3600 {
		t.Fatalf("ActualSec = %d, want 3600", e.ActualSec)
	}
	if e.Actual != "01:00:00" {
		t.Fatalf("Actual = %q, want 01:00:00", e.Actual)
	}
	if !e.Completed {
		t.Fatal("Completed should be true")
	}

	if result.Sessions[2].Activity != "Unknown" {
		t.Fatalf("expected 'Unknown', got %q", result.Sessions[2].Activity)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	err := ToJSON(nil, nil, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Sessions != nil {
		t.Fatal("sessions should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	entries, activities := sampleData()
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(entries, activities, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	_, err := time.Parse(time.RFC3339, result.ExportedAt)
	if err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	for _, e := range result.Sessions {
		_, err := time.Parse(time.RFC3339, e.StartedAt)
		if err != nil {
			t.Fatalf("started_at is not valid RFC3339: %q", e.StartedAt)
		}
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
